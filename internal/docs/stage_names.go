package docs

// StageName is a strongly-typed identifier for a docs build stage. All canonical
// stages are declared as constants here for compile-time safety.
type StageName string

// Canonical stage names.
const (
	StagePrepareOutput StageName = "prepare_output"
	StageResolveTheme  StageName = "resolve_theme"
	StageTemplates     StageName = "templates"
	StageLocate        StageName = "locate_renderer"
	StageRunRenderer   StageName = "run_renderer"
	StagePostProcess   StageName = "post_process"
)

// StageDef pairs a stage name with its executing function (internal wiring helper).
type StageDef struct {
	Name StageName
	Fn   Stage
}
