package build

// Config describes one project's layout for a production build (spec.md
// §4.H). Mirrors devserver.Config's directory fields so the same project
// root produces the same tree shape in dev and in a build.
type Config struct {
	Root      string
	PagesDir  string
	APIDir    string
	JobsDir   string
	PublicDir string
	DistDir   string
}

// withDefaults fills unset directories the way devserver.New does, rooted
// at Root.
func (c Config) withDefaults() Config {
	if c.PagesDir == "" {
		c.PagesDir = c.Root + "/src/pages"
	}
	if c.APIDir == "" {
		c.APIDir = c.Root + "/src/api"
	}
	if c.JobsDir == "" {
		c.JobsDir = c.Root + "/src/jobs"
	}
	if c.PublicDir == "" {
		c.PublicDir = c.Root + "/src/public"
	}
	if c.DistDir == "" {
		c.DistDir = c.Root + "/dist"
	}
	return c
}
