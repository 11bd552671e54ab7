package domain

import "slices"

// Catalog holds the selectable project and task names plus project meta.
// Names are unique by exact match and kept in insertion order.
type Catalog struct {
	Projects []string
	Tasks    []string
	Meta     map[string]ProjectMeta
}

// AddProject registers name if it is new and always overwrites its meta.
// It reports whether the name was added to the list.
func (c *Catalog) AddProject(name string, meta ProjectMeta) bool {
	if c.Meta == nil {
		c.Meta = map[string]ProjectMeta{}
	}
	c.Meta[name] = meta
	if slices.Contains(c.Projects, name) {
		return false
	}
	c.Projects = append(c.Projects, name)
	return true
}

func (c *Catalog) AddTask(name string) bool {
	if slices.Contains(c.Tasks, name) {
		return false
	}
	c.Tasks = append(c.Tasks, name)
	return true
}

func (c Catalog) MetaFor(project string) ProjectMeta {
	return c.Meta[project]
}
