package defs

// DrawEMDirEnv is the environment variable naming the Draw-EM installation
// directory. It must be set for every command except --version/--help.
const DrawEMDirEnv = "DRAWEMDIR"

// ConfigDirEnv overrides the parameters directory inside the installation.
const ConfigDirEnv = "NEOSEG_CONFIG_DIR"

// ThreadsEnv is exported to every stage so OpenMP-based tools pick up the
// requested thread count without per-tool flags.
const ThreadsEnv = "OMP_NUM_THREADS"

// Installation layout under $DRAWEMDIR.
const (
	// ScriptsDir holds the pipeline stage scripts.
	ScriptsDir = "scripts"

	// AtlasesDir holds one directory per atlas.
	AtlasesDir = "atlases"

	// ParametersDir holds the driver configuration.
	ParametersDir = "parameters"

	// ConfigYAML is the driver configuration file under ParametersDir.
	ConfigYAML = "neoseg.yaml"

	// AtlasReadme is the per-atlas description rendered by `neoseg info`.
	AtlasReadme = "README.md"
)

// Working directory layout created under --data-dir.
const (
	T2Dir                = "T2"
	SegmentationsDir     = "segmentations"
	SegmentationsDataDir = "segmentations-data"
	PosteriorsDir        = "posteriors"
	DofsDir              = "dofs"
	BiasDir              = "bias"
	LogsDir              = "logs"
)

// Image file extensions accepted for T2 inputs and masks.
const (
	ExtNiiGz = ".nii.gz"
	ExtNii   = ".nii"
)
