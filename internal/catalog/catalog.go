// Package catalog registers descriptions of callable capabilities that
// Omnibridge exposes to external agents, keyed by function name.
package catalog

import "fmt"

// FunctionSpec is metadata describing one callable capability.
type FunctionSpec struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Inputs      map[string]string `json:"inputs,omitempty"`
	Outputs     map[string]string `json:"outputs,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
}

// Validate checks the required spec fields.
func (s FunctionSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("catalog: function name cannot be empty")
	}
	if s.Description == "" {
		return fmt.Errorf("catalog: function %q: description cannot be empty", s.Name)
	}
	return nil
}

// Catalog is an ordered registry of function specifications.
type Catalog struct {
	order []string
	funcs map[string]FunctionSpec
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{funcs: make(map[string]FunctionSpec)}
}

// Register adds spec under its name. When replace is false, registering a
// name twice is an error; when true, the existing entry is overwritten but
// keeps its position in the registration order.
func (c *Catalog) Register(spec FunctionSpec, replace bool) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	_, exists := c.funcs[spec.Name]
	if exists && !replace {
		return fmt.Errorf("catalog: function %q is already registered", spec.Name)
	}
	c.funcs[spec.Name] = spec
	if !exists {
		c.order = append(c.order, spec.Name)
	}
	return nil
}

// Remove deletes the spec registered under name.
func (c *Catalog) Remove(name string) error {
	if _, ok := c.funcs[name]; !ok {
		return fmt.Errorf("catalog: function %q not found", name)
	}
	delete(c.funcs, name)
	for i, existing := range c.order {
		if existing == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the spec registered under name.
func (c *Catalog) Get(name string) (FunctionSpec, bool) {
	s, ok := c.funcs[name]
	return s, ok
}

// Contains reports whether name is registered.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.funcs[name]
	return ok
}

// Len returns the number of registered functions.
func (c *Catalog) Len() int { return len(c.funcs) }

// Describe returns all registered specs in registration order.
func (c *Catalog) Describe() []FunctionSpec {
	out := make([]FunctionSpec, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.funcs[name])
	}
	return out
}

// Clear removes every registration.
func (c *Catalog) Clear() {
	c.order = nil
	c.funcs = make(map[string]FunctionSpec)
}
