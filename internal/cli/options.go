package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/quasiclique/pkg/errors"
	"github.com/matzehuels/quasiclique/pkg/pipeline"
	"github.com/matzehuels/quasiclique/pkg/schema"
)

// jobFlags are the pipeline options shared by run and render.
type jobFlags struct {
	config     string
	schemaPath string
	coreType   string

	beamWidth   int
	searchWidth int
	alpha       float64
	beta        float64
	gamma       float64
	global      float64
	local       float64
	epochs      int
	patience    int
	minDegree   int
	seed        uint64
	longIDs     bool
}

func (f *jobFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "job file (.toml, .yaml, .yml or .json) with pipeline options")
	fs.StringVar(&f.schemaPath, "schema", "", "schema file (.toml, .yaml or tab-separated triples)")
	fs.StringVar(&f.coreType, "core-type", "", "node type forming the core side of each quasi-clique")

	fs.IntVar(&f.beamWidth, "beam-width", pipeline.DefaultBeamWidth, "candidates kept between search steps")
	fs.IntVar(&f.searchWidth, "search-width", pipeline.DefaultSearchWidth, "expansions sampled per candidate and step")
	fs.Float64Var(&f.alpha, "alpha", pipeline.DefaultAlpha, "exponent of the core size in the score")
	fs.Float64Var(&f.beta, "beta", pipeline.DefaultBeta, "exponent of the non-core size in the score")
	fs.Float64Var(&f.gamma, "gamma", 0, "exponent of the density in the score (unset: density is ignored)")
	fs.Float64Var(&f.global, "global-threshold", 0, "minimum density of a candidate (unset: not enforced)")
	fs.Float64Var(&f.local, "local-threshold", 0, "minimum density of every non-core member (unset: not enforced)")
	fs.IntVar(&f.epochs, "epochs", pipeline.DefaultMaxEpochs, "maximum search steps per partition")
	fs.IntVar(&f.patience, "patience", pipeline.DefaultPatience, "non-improving steps before the search stops")
	fs.IntVar(&f.minDegree, "min-degree", 0, "prune nodes below this degree before searching (0 disables)")
	fs.Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed")
	fs.BoolVar(&f.longIDs, "long-ids", false, "accept 64-bit identifiers")
}

// options assembles pipeline options. Values come from the job file first,
// then the schema file, then every flag set explicitly on the command line.
func (f *jobFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		if err := loadJobFile(f.config, &opts); err != nil {
			return opts, err
		}
	}

	if f.schemaPath != "" {
		file, err := schema.Load(f.schemaPath)
		if err != nil {
			return opts, err
		}
		opts.Schema = file.Relations
		if opts.CoreType == "" {
			opts.CoreType = file.CoreType
		}
	}

	fs := cmd.Flags()
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("core-type", func() { opts.CoreType = f.coreType })
	set("beam-width", func() { opts.BeamWidth = f.beamWidth })
	set("search-width", func() { opts.SearchWidth = f.searchWidth })
	set("alpha", func() { opts.Alpha = &f.alpha })
	set("beta", func() { opts.Beta = &f.beta })
	set("gamma", func() { opts.Gamma = &f.gamma })
	set("global-threshold", func() { opts.GlobalThreshold = &f.global })
	set("local-threshold", func() { opts.LocalThreshold = &f.local })
	set("epochs", func() { opts.MaxEpochs = f.epochs })
	set("patience", func() { opts.Patience = f.patience })
	set("min-degree", func() { opts.MinDegree = f.minDegree })
	set("seed", func() { opts.Seed = &f.seed })
	set("long-ids", func() { opts.LongIDs = f.longIDs })

	if len(opts.Schema) == 0 {
		return opts, errors.New(errors.ErrCodeInvalidConfig, "no schema given (use --schema or a job file)")
	}
	return opts, nil
}

// loadJobFile decodes a job file into opts. The format follows the file
// extension.
func loadJobFile(path string, opts *pipeline.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read job file")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		_, err = toml.Decode(string(data), opts)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, opts)
	case ".json":
		err = json.Unmarshal(data, opts)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported job file extension %q", ext)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", filepath.Base(path))
	}
	return nil
}

// describeOptions renders the effective search settings for debug logs.
func describeOptions(o pipeline.Options) string {
	w := o.Weights()
	s := fmt.Sprintf("beam=%d search=%d epochs=%d patience=%d alpha=%g beta=%g",
		o.BeamWidth, o.SearchWidth, o.MaxEpochs, o.Patience, w.Alpha, w.Beta)
	if o.Gamma != nil {
		s += fmt.Sprintf(" gamma=%g", *o.Gamma)
	}
	if o.GlobalThreshold != nil {
		s += fmt.Sprintf(" global=%g", *o.GlobalThreshold)
	}
	if o.LocalThreshold != nil {
		s += fmt.Sprintf(" local=%g", *o.LocalThreshold)
	}
	return s
}
