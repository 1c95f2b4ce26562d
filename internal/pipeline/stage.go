// Package pipeline runs the fixed Draw-EM stage sequence: each stage is one
// external script executed synchronously, in order, aborting on the first
// failure.
package pipeline

import (
	"strconv"
)

// Stage names. They double as log file keys and script override keys in
// neoseg.yaml, so they are stable identifiers.
const (
	StagePreprocess          = "preprocess"
	StageRegisterMultiAtlas  = "register-multi-atlas"
	StageLabelsMultiAtlas    = "labels-multi-atlas"
	StageTissuePriors        = "tissue-priors"
	StageSegmentation        = "segmentation"
	StageSeparateHemispheres = "separate-hemispheres"
	StageCorrection          = "correct-segmentation"
	StagePostprocess         = "postprocess"
	StageStorePosteriors     = "store-posteriors"
	StageCleanup             = "clear-data"
)

// defaultScripts maps stage names to their script filenames under
// $DRAWEMDIR/scripts. Overridable per stage via pipeline.scripts.
var defaultScripts = map[string]string{
	StagePreprocess:          "preprocess.sh",
	StageRegisterMultiAtlas:  "register-multi-atlas.sh",
	StageLabelsMultiAtlas:    "labels-multi-atlas.sh",
	StageTissuePriors:        "tissue-priors.sh",
	StageSegmentation:        "segmentation.sh",
	StageSeparateHemispheres: "separate-hemispheres.sh",
	StageCorrection:          "correct-segmentation.sh",
	StagePostprocess:         "postprocess.sh",
	StageStorePosteriors:     "store-posteriors.sh",
	StageCleanup:             "clear-data.sh",
}

// Stage is one pipeline step: a script plus its arguments.
type Stage struct {
	// Name identifies the stage in logs and diagnostics.
	Name string

	// Script is the filename under the scripts directory.
	Script string

	// Args are passed to the script after its path.
	Args []string
}

// Plan captures everything needed to build the stage sequence for one run.
type Plan struct {
	// Subject is the ID spliced into every stage invocation.
	Subject string

	// Age is the clamped gestational age in whole weeks.
	Age int

	// Threads is the thread count forwarded to registration.
	Threads int

	// UseTissuePriors enables the tissue-priors stage (a non-default
	// tissue atlas is selected).
	UseTissuePriors bool

	// SavePosteriors enables the posterior-map export stage.
	SavePosteriors bool

	// Cleanup enables intermediate-file removal at the end.
	Cleanup bool

	// ScriptOverrides replaces the default script filename per stage name.
	ScriptOverrides map[string]string
}

// Stages expands the plan into the ordered stage sequence.
func (p Plan) Stages() []Stage {
	subj := p.Subject
	age := strconv.Itoa(p.Age)
	threads := strconv.Itoa(p.Threads)

	stages := []Stage{
		{Name: StagePreprocess, Args: []string{subj}},
		{Name: StageRegisterMultiAtlas, Args: []string{subj, age, threads}},
		{Name: StageLabelsMultiAtlas, Args: []string{subj}},
	}
	if p.UseTissuePriors {
		stages = append(stages, Stage{Name: StageTissuePriors, Args: []string{subj, age}})
	}
	stages = append(stages,
		Stage{Name: StageSegmentation, Args: []string{subj, age}},
		Stage{Name: StageSeparateHemispheres, Args: []string{subj}},
		Stage{Name: StageCorrection, Args: []string{subj}},
		Stage{Name: StagePostprocess, Args: []string{subj, age}},
	)
	if p.SavePosteriors {
		stages = append(stages, Stage{Name: StageStorePosteriors, Args: []string{subj}})
	}
	if p.Cleanup {
		stages = append(stages, Stage{Name: StageCleanup, Args: []string{subj}})
	}

	for i := range stages {
		stages[i].Script = p.scriptFor(stages[i].Name)
	}
	return stages
}

// scriptFor resolves the script filename for a stage, honoring overrides.
func (p Plan) scriptFor(name string) string {
	if s, ok := p.ScriptOverrides[name]; ok && s != "" {
		return s
	}
	return defaultScripts[name]
}
