package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aouyang1/go-linfit/internal/config"
	"github.com/aouyang1/go-linfit/linearmodel"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.Method, convey.ShouldEqual, "manual")
				convey.So(cfg.Seed, convey.ShouldEqual, uint64(42))
				convey.So(cfg.SampleSizes, convey.ShouldResemble, []int{5, 10, 20, 50, 100})
				convey.So(cfg.Range(), convey.ShouldResemble, linearmodel.DefaultRange())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("LINFIT_METHOD", "qr")
			_ = os.Setenv("LINFIT_RANGE_HI", "100")
			_ = os.Setenv("LINFIT_SEED", "7")
			_ = os.Setenv("LINFIT_MODEL_DIR", "/tmp/linfit")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Method, convey.ShouldEqual, "qr")
				convey.So(cfg.RangeHi, convey.ShouldEqual, 100.0)
				convey.So(cfg.Seed, convey.ShouldEqual, uint64(7))
				convey.So(cfg.ModelDir, convey.ShouldEqual, "/tmp/linfit")

				method, err := cfg.ParsedMethod()
				convey.So(err, convey.ShouldBeNil)
				convey.So(method, convey.ShouldEqual, linearmodel.MethodQR)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := createTempConfigFile(t, `
# sweep fewer sizes
log_level: debug
method: gonum
range_lo: 1
range_hi: 9
sample_sizes: [3, 30, 300]
plot_dir: out
metrics_addr: ":9090"
`)

			convey.Convey("Then values from an explicit path are used", func() {
				cfg, err := config.Load(ctx, path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Method, convey.ShouldEqual, "gonum")
				convey.So(cfg.Range(), convey.ShouldResemble, linearmodel.Range{Lo: 1, Hi: 9})
				convey.So(cfg.SampleSizes, convey.ShouldResemble, []int{3, 30, 300})
				convey.So(cfg.PlotDir, convey.ShouldEqual, "out")
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9090")
				convey.So(cfg.ModelDir, convey.ShouldEqual, "models")
			})

			convey.Convey("Then the path can come from the environment", func() {
				_ = os.Setenv("LINFIT_CONFIG", path)
				cfg, err := config.Load(ctx, "")
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Method, convey.ShouldEqual, "gonum")
			})

			convey.Convey("Then environment variables override the file", func() {
				_ = os.Setenv("LINFIT_METHOD", "manual")
				cfg, err := config.Load(ctx, path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Method, convey.ShouldEqual, "manual")
				convey.So(cfg.RangeLo, convey.ShouldEqual, 1.0)
			})
		})

		convey.Convey("When the file cannot be loaded", func() {
			_, missingErr := config.Load(ctx, "/non/existent/file.yaml")
			_, invalidErr := config.Load(ctx, createTempConfigFile(t, `invalid: yaml: content: [`))

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(missingErr, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(invalidErr, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When values fail validation", func() {
			testData := []struct {
				name  string
				key   string
				value string
				err   error
			}{
				{"an unknown method", "LINFIT_METHOD", "lasso", linearmodel.ErrUnknownMethod},
				{"an inverted range", "LINFIT_RANGE_LO", "20", linearmodel.ErrInvalidRange},
				{"an unknown log level", "LINFIT_LOG_LEVEL", "verbose", config.ErrInvalidConfig},
			}
			for _, td := range testData {
				convey.Convey("Then "+td.name+" is rejected", func() {
					_ = os.Setenv(td.key, td.value)
					cfg, err := config.Load(ctx, "")

					convey.So(cfg, convey.ShouldBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(errors.Is(err, td.err), convey.ShouldBeTrue)
				})
			}
		})

		convey.Convey("When a sample size is too small", func() {
			cfg, err := config.Load(ctx, createTempConfigFile(t, "sample_sizes: [1, 5]\n"))

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"LINFIT_CONFIG",
		"LINFIT_LOG_LEVEL",
		"LINFIT_MODEL_DIR",
		"LINFIT_METHOD",
		"LINFIT_RANGE_LO",
		"LINFIT_RANGE_HI",
		"LINFIT_SEED",
		"LINFIT_SAMPLE_SIZES",
		"LINFIT_PLOT_DIR",
		"LINFIT_METRICS_ADDR",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "linfit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
