package builtintool

// DefaultRegistry returns a registry populated with the representative
// built-in set: file read/write/edit, terminal exec, content/path search,
// and directory listing.
func DefaultRegistry(workDir string) *Registry {
	r := NewRegistry()
	r.Register(NewReadTool(workDir))
	r.Register(NewWriteTool(workDir))
	r.Register(NewEditTool(workDir))
	r.Register(NewBashTool(workDir))
	r.Register(NewGrepTool(workDir))
	r.Register(NewGlobTool(workDir))
	r.Register(NewListTool(workDir))
	return r
}
