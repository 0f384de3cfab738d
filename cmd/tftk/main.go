// Package main is the tftk command line tool for working with rigid transform
// files: converting a transform between rotation encodings, composing a sequence of
// transforms and querying a fact list for the transform between two frames.
package main

import (
	"io"
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.viam.com/utils"

	"github.com/tfkit/tfkit/config"
	"github.com/tfkit/tfkit/spatialmath"
	"github.com/tfkit/tfkit/transformset"
)

const (
	flagDebug           = "debug"
	flagInput           = "input"
	flagOutput          = "output"
	flagInputFormat     = "input-format"
	flagOutputFormat    = "output-format"
	flagRotationFormat  = "rotation-format"
	flagAngleUnit       = "angle-unit"
	flagKeepTranslation = "keep-translation"
	flagPretty          = "pretty"
)

var app = &cli.App{
	Name:            "tftk",
	Usage:           "convert, compose and query rigid transform files",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  flagDebug,
			Usage: "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:  "convert",
			Usage: "re-encode a transform file's rotation format and angle unit",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagInput,
					Aliases: []string{"i"},
					Value:   "-",
					Usage:   "input transform file, or - for stdin",
				},
				&cli.StringFlag{
					Name:    flagOutput,
					Aliases: []string{"o"},
					Value:   "-",
					Usage:   "output transform file, or - for stdout",
				},
				&cli.StringFlag{
					Name:    flagInputFormat,
					Aliases: []string{"f"},
					Usage:   "input file format (json or yaml), guessed from the extension when omitted",
				},
				&cli.StringFlag{
					Name:    flagOutputFormat,
					Aliases: []string{"t"},
					Usage:   "output file format (json or yaml), guessed from the extension when omitted",
				},
				&cli.StringFlag{
					Name:     flagRotationFormat,
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "output rotation format: quat, euler, mat, axis-angle or rodrigues",
				},
				&cli.StringFlag{
					Name:    flagAngleUnit,
					Aliases: []string{"a"},
					Value:   "deg",
					Usage:   "output angle unit: deg or rad",
				},
				&cli.StringFlag{
					Name:    flagKeepTranslation,
					Aliases: []string{"k"},
					Value:   "auto",
					Usage:   "translation handling: auto, always or discard",
				},
				&cli.BoolFlag{
					Name:    flagPretty,
					Aliases: []string{"p"},
					Usage:   "indent JSON output",
				},
			},
			Action: ConvertAction,
		},
		{
			Name:      "compose",
			Usage:     "compose transform files left to right and write the product",
			ArgsUsage: "<file> [<file> ...]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagOutput,
					Aliases: []string{"o"},
					Value:   "-",
					Usage:   "output transform file, or - for stdout",
				},
				&cli.StringFlag{
					Name:    flagOutputFormat,
					Aliases: []string{"t"},
					Usage:   "output file format (json or yaml), guessed from the extension when omitted",
				},
				&cli.StringFlag{
					Name:     flagRotationFormat,
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "output rotation format: quat, euler, mat, axis-angle or rodrigues",
				},
				&cli.StringFlag{
					Name:    flagAngleUnit,
					Aliases: []string{"a"},
					Value:   "deg",
					Usage:   "output angle unit: deg or rad",
				},
				&cli.StringFlag{
					Name:    flagKeepTranslation,
					Aliases: []string{"k"},
					Value:   "auto",
					Usage:   "translation handling: auto, always or discard",
				},
				&cli.BoolFlag{
					Name:    flagPretty,
					Aliases: []string{"p"},
					Usage:   "indent JSON output",
				},
			},
			Action: ComposeAction,
		},
		{
			Name:      "query",
			Usage:     "print the transform between two frames of a fact list",
			ArgsUsage: "<src> <dst>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagInput,
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "fact list file, or a directory of fact list files",
				},
				&cli.StringFlag{
					Name:    flagRotationFormat,
					Aliases: []string{"r"},
					Value:   "quat",
					Usage:   "output rotation format: quat, euler, mat, axis-angle or rodrigues",
				},
				&cli.StringFlag{
					Name:    flagAngleUnit,
					Aliases: []string{"a"},
					Value:   "deg",
					Usage:   "output angle unit: deg or rad",
				},
				&cli.BoolFlag{
					Name:    flagPretty,
					Aliases: []string{"p"},
					Usage:   "indent JSON output",
				},
			},
			Action: QueryAction,
		},
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		golog.Global().Fatal(err)
	}
}

// ConvertAction reads one transform, re-encodes its rotation and writes it back out.
func ConvertAction(c *cli.Context) error {
	inFormat, err := resolveFormat(c.String(flagInputFormat), c.String(flagInput), flagInputFormat)
	if err != nil {
		return err
	}
	outFormat, err := resolveFormat(c.String(flagOutputFormat), c.String(flagOutput), flagOutputFormat)
	if err != nil {
		return err
	}
	rotFormat, err := parseRotationFormat(c.String(flagRotationFormat))
	if err != nil {
		return err
	}
	unit, err := parseAngleUnit(c.String(flagAngleUnit))
	if err != nil {
		return err
	}

	tf, err := func() (*config.TransformConfig, error) {
		in, closeIn, err := openInput(c.String(flagInput))
		if err != nil {
			return nil, err
		}
		defer closeIn()
		return config.ReadTransformFrom(in, inFormat)
	}()
	if err != nil {
		return err
	}

	o, err := tf.Rotation.Orientation()
	if err != nil {
		return err
	}
	rot, err := config.NewRotationConfig(o, rotFormat, unit)
	if err != nil {
		return err
	}
	trans, err := applyKeepTranslation(tf.Translation, c.String(flagKeepTranslation))
	if err != nil {
		return err
	}

	out := &config.TransformConfig{Rotation: *rot, Translation: trans}
	return writeTransform(c.String(flagOutput), out, outFormat, c.Bool(flagPretty))
}

// ComposeAction reads every argument as a transform file, composes them left to
// right and writes the product. The product carries a translation if any input did.
func ComposeAction(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return errors.New("compose needs at least one transform file")
	}
	outFormat, err := resolveFormat(c.String(flagOutputFormat), c.String(flagOutput), flagOutputFormat)
	if err != nil {
		return err
	}
	rotFormat, err := parseRotationFormat(c.String(flagRotationFormat))
	if err != nil {
		return err
	}
	unit, err := parseAngleUnit(c.String(flagAngleUnit))
	if err != nil {
		return err
	}

	prod := spatialmath.NewZeroPose()
	hasTranslation := false
	for _, path := range paths {
		tf, err := config.ReadTransform(path)
		if err != nil {
			return errors.Wrapf(err, "reading %q", path)
		}
		hasTranslation = hasTranslation || tf.Translation != nil
		pose, err := tf.Pose()
		if err != nil {
			return errors.Wrapf(err, "reading %q", path)
		}
		prod = spatialmath.Compose(prod, pose)
	}

	rot, err := config.NewRotationConfig(prod.Orientation(), rotFormat, unit)
	if err != nil {
		return err
	}
	var trans *[3]float64
	if hasTranslation {
		pt := prod.Point()
		trans = &[3]float64{pt.X, pt.Y, pt.Z}
	}
	trans, err = applyKeepTranslation(trans, c.String(flagKeepTranslation))
	if err != nil {
		return err
	}

	out := &config.TransformConfig{Rotation: *rot, Translation: trans}
	return writeTransform(c.String(flagOutput), out, outFormat, c.Bool(flagPretty))
}

// QueryAction loads a fact list from a file or directory and prints the transform
// from the first argument frame to the second.
func QueryAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("query needs exactly two frame names")
	}
	src, dst := c.Args().Get(0), c.Args().Get(1)

	rotFormat, err := parseRotationFormat(c.String(flagRotationFormat))
	if err != nil {
		return err
	}
	unit, err := parseAngleUnit(c.String(flagAngleUnit))
	if err != nil {
		return err
	}

	set, err := loadTransformSet(c.String(flagInput), newLogger(c))
	if err != nil {
		return err
	}

	tf, ok := set.Get(src, dst)
	if !ok {
		return errors.Errorf("no known relation between frames %q and %q", src, dst)
	}
	out, err := config.NewTransformConfig(tf, rotFormat, unit)
	if err != nil {
		return err
	}
	return writeTransform("-", out, config.FormatJSON, c.Bool(flagPretty))
}

func newLogger(c *cli.Context) golog.Logger {
	if c.Bool(flagDebug) {
		return golog.NewDebugLogger("tftk")
	}
	return golog.NewLogger("tftk")
}

func loadTransformSet(path string, logger golog.Logger) (*transformset.TransformSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return config.ReadTransformSetFromDir(path, logger)
	}
	return config.ReadTransformSet(path)
}

func resolveFormat(explicit, path, flagName string) (config.Format, error) {
	switch explicit {
	case "json":
		return config.FormatJSON, nil
	case "yaml", "yml":
		return config.FormatYAML, nil
	case "":
	default:
		return "", errors.Errorf("file format %q not recognized", explicit)
	}
	if format, ok := config.GuessFormat(path); ok {
		return format, nil
	}
	return "", errors.Errorf("unable to determine the file format for %q; specify --%s", path, flagName)
}

func parseRotationFormat(name string) (config.RotationFormat, error) {
	switch name {
	case "quat", "quaternion":
		return config.QuaternionFormat, nil
	case "euler":
		return config.EulerFormat, nil
	case "mat", "rotation-matrix":
		return config.RotationMatrixFormat, nil
	case "axis-angle":
		return config.AxisAngleFormat, nil
	case "rodrigues":
		return config.RodriguesFormat, nil
	}
	return "", errors.Errorf("rotation format %q not recognized", name)
}

func parseAngleUnit(name string) (config.AngleUnit, error) {
	switch name {
	case "deg", "degree":
		return config.Degree, nil
	case "rad", "radian":
		return config.Radian, nil
	}
	return "", errors.Errorf("angle unit %q not recognized", name)
}

func applyKeepTranslation(trans *[3]float64, mode string) (*[3]float64, error) {
	switch mode {
	case "auto":
		return trans, nil
	case "always":
		if trans == nil {
			trans = &[3]float64{}
		}
		return trans, nil
	case "discard":
		return nil, nil
	}
	return nil, errors.Errorf("translation handling %q not recognized", mode)
}

func openInput(spec string) (io.Reader, func(), error) {
	if spec == "-" {
		return os.Stdin, func() {}, nil
	}
	file, err := os.Open(spec)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { utils.UncheckedErrorFunc(file.Close) }, nil
}

func writeTransform(spec string, tf *config.TransformConfig, format config.Format, pretty bool) error {
	if spec == "-" {
		return config.WriteTransform(os.Stdout, tf, format, pretty)
	}
	file, err := os.Create(spec)
	if err != nil {
		return err
	}
	if err := config.WriteTransform(file, tf, format, pretty); err != nil {
		utils.UncheckedErrorFunc(file.Close)
		return err
	}
	return file.Close()
}
