package sensitivity

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"privco_valuation/pkg/models"
)

// Trial is one sampled scenario and its outcome.
type Trial struct {
	GrowthRate   float64 `json:"growth_rate"`
	ExitMultiple float64 `json:"exit_multiple"`
	InterestRate float64 `json:"interest_rate"`
	IRR          float64 `json:"irr"`
	MOIC         float64 `json:"moic"`
}

// MonteCarloResult is the empirical IRR distribution from pushing each
// sampled assumption set through the full pipeline.
type MonteCarloResult struct {
	Trials   int     `json:"trials"`
	Seed     int64   `json:"seed"`
	MeanIRR  float64 `json:"mean_irr"`
	P10      float64 `json:"p10"`
	P50      float64 `json:"p50"`
	P90      float64 `json:"p90"`
	ProbLoss float64 `json:"prob_loss"` // share of trials with MOIC < 1
	Samples  []Trial `json:"samples"`
}

// RunMonteCarlo samples growth rate, exit multiple, and interest rate from
// independent normal distributions centered on the base assumptions and
// evaluates the full pipeline for every draw. All draws come from a single
// seeded source before any evaluation, so results are reproducible
// regardless of worker count.
//
// Draws that produce an invalid configuration (e.g. a non-positive exit
// multiple) are clamped to a small positive floor rather than discarded,
// keeping the trial count exact.
func RunMonteCarlo(base Scenario, spec models.MonteCarloSpec) (MonteCarloResult, error) {
	if spec.Trials <= 0 {
		return MonteCarloResult{}, fmt.Errorf("monte carlo requires a positive trial count, got %d", spec.Trials)
	}

	rng := rand.New(rand.NewSource(spec.Seed))
	a := base.Assumptions
	trials := make([]Trial, spec.Trials)
	for i := range trials {
		trials[i] = Trial{
			GrowthRate:   a.RevenueGrowthRate + rng.NormFloat64()*spec.GrowthStdDev,
			ExitMultiple: floorPositive(a.ExitMultiple + rng.NormFloat64()*spec.ExitMultipleStdDev),
			InterestRate: clampNonNegative(a.InterestRate + rng.NormFloat64()*spec.InterestStdDev),
		}
	}

	workers := spec.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > spec.Trials {
		workers = spec.Trials
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var runErr error
	jobs := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				scenario := base
				scenario.Assumptions.RevenueGrowthRate = trials[i].GrowthRate
				scenario.Assumptions.ExitMultiple = trials[i].ExitMultiple
				scenario.Assumptions.InterestRate = trials[i].InterestRate
				out, err := scenario.Run()
				if err != nil {
					mu.Lock()
					if runErr == nil {
						runErr = fmt.Errorf("trial %d: %w", i, err)
					}
					mu.Unlock()
					continue
				}
				trials[i].IRR = out.LBO.IRR
				trials[i].MOIC = out.LBO.MOIC
			}
		}()
	}
	for i := 0; i < spec.Trials; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if runErr != nil {
		return MonteCarloResult{}, runErr
	}

	irrs := make([]float64, spec.Trials)
	losses := 0
	sum := 0.0
	for i, tr := range trials {
		irrs[i] = tr.IRR
		sum += tr.IRR
		if tr.MOIC < 1 {
			losses++
		}
	}
	sort.Float64s(irrs)

	return MonteCarloResult{
		Trials:   spec.Trials,
		Seed:     spec.Seed,
		MeanIRR:  sum / float64(spec.Trials),
		P10:      percentile(irrs, 0.10),
		P50:      percentile(irrs, 0.50),
		P90:      percentile(irrs, 0.90),
		ProbLoss: float64(losses) / float64(spec.Trials),
		Samples:  trials,
	}, nil
}

// percentile reads the p-th quantile from a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func floorPositive(v float64) float64 {
	if v < 0.5 {
		return 0.5
	}
	return v
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
