package view

import (
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// Group is one bucket of a grouped task list.
type Group struct {
	Title      string       `json:"title"`
	Key        string       `json:"key"`
	SortOrder  int          `json:"sortOrder"`
	Tasks      []*task.Task `json:"tasks"`
	IsExpanded bool         `json:"isExpanded"`
	Children   []Group      `json:"children,omitempty"`
	Level      int          `json:"level"`
	ParentKey  string       `json:"parentKey,omitempty"`
}

// GroupOptions tune a grouping pass.
type GroupOptions struct {
	Now         time.Time // defines "today" for dueDate buckets; zero means time.Now()
	NestedFiles bool      // filePath produces folder groups with file children
}

// Fallback bucket names.
const (
	unknownFile = "Unknown File"
	noProject   = "No Project"
	noTags      = "No Tags"
	todoStatus  = "TODO"
	rootFolder  = "folder-root"
)

// statusOrder ranks raw status values for the status dimension. Values not
// listed follow in collation order.
var statusOrder = []string{"TODO", "IN_PROGRESS", "WAITING", "DONE", "CANCELLED"}

// GroupTasks partitions tasks along dim. Every task lands in at least one
// group; with DimTags a task lands in one group per distinct tag. Tasks keep
// their input order inside each group.
func GroupTasks(tasks []*task.Task, dim Dimension, opts GroupOptions) []Group {
	switch dim {
	case DimFilePath:
		if opts.NestedFiles {
			return groupByFileNested(tasks)
		}
		return groupByFile(tasks)
	case DimDueDate:
		return groupByDueDate(tasks, nowOr(opts.Now))
	case DimPriority:
		return groupByPriority(tasks)
	case DimProject:
		return groupByProject(tasks)
	case DimTags:
		return groupByTags(tasks)
	case DimStatus:
		return groupByStatus(tasks)
	case DimNone:
		return groupNone(tasks)
	default:
		return groupNone(tasks)
	}
}

// buckets collects tasks per key, remembering first-seen key order so that
// equal-ranking keys keep a deterministic order.
type buckets struct {
	keys  []string
	tasks map[string][]*task.Task
}

func newBuckets() *buckets {
	return &buckets{tasks: make(map[string][]*task.Task)}
}

func (b *buckets) add(key string, t *task.Task) {
	list, ok := b.tasks[key]
	if !ok {
		b.keys = append(b.keys, key)
	}
	// Tasks are added in sequence, so a repeat can only be the tail.
	if n := len(list); n > 0 && list[n-1] == t {
		return
	}
	b.tasks[key] = append(list, t)
}

// fixedBucket is one slot of a dimension with a fixed bucket sequence.
type fixedBucket struct {
	key, title string
	tasks      []*task.Task
}

// emitFixed returns the non-empty buckets in the given order, numbering
// them consecutively.
func emitFixed(slots []fixedBucket) []Group {
	groups := make([]Group, 0, len(slots))
	for _, s := range slots {
		if len(s.tasks) == 0 {
			continue
		}
		groups = append(groups, Group{
			Title:      s.title,
			Key:        s.key,
			SortOrder:  len(groups),
			Tasks:      s.tasks,
			IsExpanded: true,
		})
	}
	return groups
}

func groupNone(tasks []*task.Task) []Group {
	if len(tasks) == 0 {
		return []Group{}
	}
	return []Group{{
		Title:      "All Tasks",
		Key:        "all",
		SortOrder:  0,
		Tasks:      slices.Clone(tasks),
		IsExpanded: true,
	}}
}

func filePathOf(t *task.Task) string {
	if t.FilePath == "" {
		return unknownFile
	}
	return t.FilePath
}

// splitPath splits at the last '/' or '\'. ok is false when path has no
// separator.
func splitPath(path string) (folder, file string, ok bool) {
	i := strings.LastIndexAny(path, `/\`)
	if i < 0 {
		return "", path, false
	}
	return path[:i], path[i+1:], true
}

// baseName strips the last extension. Dot-files keep their name.
func baseName(file string) string {
	if i := strings.LastIndexByte(file, '.'); i > 0 {
		return file[:i]
	}
	return file
}

func fileTitle(path string) string {
	folder, file, _ := splitPath(path)
	if folder == "" {
		return baseName(file)
	}
	return baseName(file) + " (" + folder + ")"
}

func groupByFile(tasks []*task.Task) []Group {
	b := newBuckets()
	for _, t := range tasks {
		b.add(filePathOf(t), t)
	}

	col := newCollator()
	keys := slices.Clone(b.keys)
	slices.SortStableFunc(keys, col.compare)

	groups := make([]Group, 0, len(keys))
	for i, key := range keys {
		groups = append(groups, Group{
			Title:      fileTitle(key),
			Key:        "file-" + key,
			SortOrder:  i,
			Tasks:      b.tasks[key],
			IsExpanded: true,
		})
	}
	return groups
}

func groupByFileNested(tasks []*task.Task) []Group {
	folders := newBuckets()
	files := make(map[string]*buckets)
	root := newBuckets()

	for _, t := range tasks {
		path := filePathOf(t)
		folder, _, _ := splitPath(path)
		if folder == "" {
			root.add(path, t)
			continue
		}
		folders.add(folder, t)
		if files[folder] == nil {
			files[folder] = newBuckets()
		}
		files[folder].add(path, t)
	}

	col := newCollator()
	groups := make([]Group, 0, len(folders.keys)+1)

	if len(root.keys) > 0 {
		children := fileChildren(root, rootFolder, col)
		groups = append(groups, Group{
			Title:     "Root Files",
			Key:       rootFolder,
			SortOrder: -1,
			Tasks:     flatten(children),
			Children:  children,
			Level:     0,
		})
	}

	folderKeys := slices.Clone(folders.keys)
	slices.SortStableFunc(folderKeys, col.compare)
	for i, folder := range folderKeys {
		key := "folder-" + folder
		children := fileChildren(files[folder], key, col)
		groups = append(groups, Group{
			Title:     folderTitle(folder),
			Key:       key,
			SortOrder: i,
			Tasks:     flatten(children),
			Children:  children,
			Level:     0,
		})
	}
	return groups
}

func fileChildren(b *buckets, parentKey string, col *collator) []Group {
	keys := slices.Clone(b.keys)
	slices.SortStableFunc(keys, col.compare)
	children := make([]Group, 0, len(keys))
	for i, path := range keys {
		_, file, _ := splitPath(path)
		children = append(children, Group{
			Title:     baseName(file),
			Key:       "file-" + path,
			SortOrder: i,
			Tasks:     b.tasks[path],
			Level:     1,
			ParentKey: parentKey,
		})
	}
	return children
}

func folderTitle(folder string) string {
	_, last, _ := splitPath(folder)
	if last == "" {
		return folder
	}
	return last
}

// flatten concatenates the tasks of groups in order.
func flatten(groups []Group) []*task.Task {
	var n int
	for _, g := range groups {
		n += len(g.Tasks)
	}
	out := make([]*task.Task, 0, n)
	for _, g := range groups {
		out = append(out, g.Tasks...)
	}
	return out
}

func groupByDueDate(tasks []*task.Task, now time.Time) []Group {
	today := date.StartOfDay(now)
	tomorrow := date.AddDays(today, 1)
	nextWeek := date.AddDays(today, 7) //nolint:mnd // one week
	loc := now.Location()

	slots := []fixedBucket{
		{key: "due-past", title: "Past Due"},
		{key: "due-today", title: "Today"},
		{key: "due-tomorrow", title: "Tomorrow"},
		{key: "due-week", title: "This Week"},
		{key: "due-later", title: "Later"},
		{key: "due-none", title: "No Due Date"},
	}
	const (
		past = iota
		today0
		tomorrow0
		week
		later
		none
	)

	for _, t := range tasks {
		if t.Metadata.DueDate == nil {
			slots[none].tasks = append(slots[none].tasks, t)
			continue
		}
		day := date.Day(*t.Metadata.DueDate, loc)
		var slot int
		switch {
		case day.Before(today):
			slot = past
		case day.Equal(today):
			slot = today0
		case day.Equal(tomorrow):
			slot = tomorrow0
		case !day.After(nextWeek):
			slot = week
		default:
			slot = later
		}
		slots[slot].tasks = append(slots[slot].tasks, t)
	}
	return emitFixed(slots)
}

// Priority thresholds of the grouping scale (0–3), which is narrower than
// the 0–5 task scale. Anything at or above priorityHigh groups as High.
const (
	priorityHigh   = 3
	priorityMedium = 2
	priorityLow    = 1
)

func groupByPriority(tasks []*task.Task) []Group {
	slots := []fixedBucket{
		{key: "priority-high", title: "High"},
		{key: "priority-medium", title: "Medium"},
		{key: "priority-low", title: "Low"},
		{key: "priority-none", title: "No Priority"},
	}
	for _, t := range tasks {
		p := t.Metadata.Priority
		var slot int
		switch {
		case p >= priorityHigh:
			slot = 0
		case p == priorityMedium:
			slot = 1
		case p == priorityLow:
			slot = 2
		default:
			slot = 3
		}
		slots[slot].tasks = append(slots[slot].tasks, t)
	}
	return emitFixed(slots)
}

func groupByProject(tasks []*task.Task) []Group {
	b := newBuckets()
	for _, t := range tasks {
		project := t.Metadata.Project
		if project == "" {
			project = noProject
		}
		b.add(project, t)
	}

	col := newCollator()
	keys := slices.Clone(b.keys)
	slices.SortStableFunc(keys, func(a, c string) int {
		switch {
		case a == c:
			return 0
		case a == noProject:
			return 1
		case c == noProject:
			return -1
		}
		return col.compare(a, c)
	})

	groups := make([]Group, 0, len(keys))
	for i, key := range keys {
		groups = append(groups, Group{
			Title:      key,
			Key:        "project-" + key,
			SortOrder:  i,
			Tasks:      b.tasks[key],
			IsExpanded: true,
		})
	}
	return groups
}

func groupByTags(tasks []*task.Task) []Group {
	b := newBuckets()
	var untagged []*task.Task
	for _, t := range tasks {
		tagged := false
		for _, tag := range t.Metadata.Tags {
			clean := NormalizeTag(tag)
			if clean == "" {
				continue
			}
			b.add(clean, t)
			tagged = true
		}
		if !tagged {
			untagged = append(untagged, t)
		}
	}

	keys := slices.Clone(b.keys)
	slices.SortStableFunc(keys, newCollator().compare)

	groups := make([]Group, 0, len(keys)+1)
	for i, key := range keys {
		groups = append(groups, Group{
			Title:      "#" + key,
			Key:        "tag-" + key,
			SortOrder:  i,
			Tasks:      b.tasks[key],
			IsExpanded: true,
		})
	}
	if len(untagged) > 0 {
		groups = append(groups, Group{
			Title:      noTags,
			Key:        "tag-none",
			SortOrder:  len(groups),
			Tasks:      untagged,
			IsExpanded: true,
		})
	}
	return groups
}

func groupByStatus(tasks []*task.Task) []Group {
	b := newBuckets()
	for _, t := range tasks {
		status := t.Status
		if strings.TrimSpace(status) == "" {
			status = todoStatus
		}
		b.add(status, t)
	}

	col := newCollator()
	keys := slices.Clone(b.keys)
	slices.SortStableFunc(keys, func(a, c string) int {
		ia, ic := slices.Index(statusOrder, a), slices.Index(statusOrder, c)
		switch {
		case ia >= 0 && ic >= 0:
			return ia - ic
		case ia >= 0:
			return -1
		case ic >= 0:
			return 1
		}
		return col.compare(a, c)
	})

	groups := make([]Group, 0, len(keys))
	for i, key := range keys {
		groups = append(groups, Group{
			Title:      statusTitle(key),
			Key:        "status-" + key,
			SortOrder:  i,
			Tasks:      b.tasks[key],
			IsExpanded: true,
		})
	}
	return groups
}

// statusTitle turns IN_PROGRESS into "In Progress".
func statusTitle(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// GroupCount returns the number of task occurrences across groups,
// counting only top-level groups (children are already included).
func GroupCount(groups []Group) int {
	var n int
	for _, g := range groups {
		n += len(g.Tasks)
	}
	return n
}
