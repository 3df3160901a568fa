// mapfit fits the MAP estimate of a beta-binomial coin model: a beta
// prior on the head probability updated with an observed number of
// heads in a fixed number of flips.
package main

import (
	"fmt"
	"os"

	"github.com/samuelfneumann/goprob"
	"github.com/samuelfneumann/goprob/dist"
	"github.com/samuelfneumann/goprob/logger"
	"github.com/samuelfneumann/goprob/tuning"
	"github.com/urfave/cli/v2"
	"gorgonia.org/tensor"
)

// initApp returns the mapfit application.
func initApp() *cli.App {
	return &cli.App{
		Name:      "mapfit",
		HelpName:  "mapfit",
		Usage:     "MAP estimation for a beta-binomial coin model",
		Copyright: "(c) 2022 Samuel Neumann",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "trials",
				Value: 20,
				Usage: "number of coin flips",
			},
			&cli.IntFlag{
				Name:  "successes",
				Value: 14,
				Usage: "observed number of heads",
			},
			&cli.Float64Flag{
				Name:  "alpha",
				Value: 2,
				Usage: "alpha concentration of the beta prior",
			},
			&cli.Float64Flag{
				Name:  "beta",
				Value: 2,
				Usage: "beta concentration of the beta prior",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Value: 1,
				Usage: "random seed",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "INFO",
				Usage: "level of the logging",
			},
		},
		Action: mapfitAction,
	}
}

// mapfitAction builds the coin model and fits its MAP estimate.
func mapfitAction(ctx *cli.Context) error {
	log := logger.New(ctx.String("log-level"), "mapfit")

	n := ctx.Int("trials")
	y := ctx.Int("successes")
	if y < 0 || y > n {
		return fmt.Errorf("successes must lie in [0, %v]", n)
	}
	alpha := ctx.Float64("alpha")
	beta := ctx.Float64("beta")
	seed := ctx.Uint64("seed")

	prior, err := dist.NewBeta(dist.C(alpha), dist.C(beta), seed)
	if err != nil {
		return err
	}
	likelihood, err := dist.NewBinomial(dist.C(float64(n)), dist.RV("p"), seed)
	if err != nil {
		return err
	}

	m := goprob.NewModel()
	if _, err := m.Register("p", prior); err != nil {
		return err
	}
	heads := tensor.New(tensor.WithShape(1),
		tensor.WithBacking([]int64{int64(y)}))
	if err := m.Observe("heads", likelihood, heads); err != nil {
		return err
	}

	log.Infof("fitting p to %v heads in %v flips under a Beta(%v, %v) prior",
		y, n, alpha, beta)
	var raw interface{}
	mx, err := tuning.FindMAP(m, tuning.WithRawResult(&raw),
		tuning.WithLogger(log))
	if err != nil {
		return err
	}

	vals, err := goprob.Float64s(mx["p"])
	if err != nil {
		return err
	}
	est := vals[0]
	closed := (float64(y) + alpha - 1) / (float64(n) + alpha + beta - 2)
	log.Infof("closed form MAP is %.6f", closed)
	fmt.Printf("p: %.6f\n", est)
	return nil
}

func main() {
	app := initApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
