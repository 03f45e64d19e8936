// Package generator builds random job pools for the cross-validation
// harness: uniform and normal window-length distributions for contiguous
// jobs, and Bernoulli-sampled availability for multi-interval jobs. Every
// generator takes an explicit rand source so sweeps are reproducible, and
// each has a feasibility-guided twin that pops the last job whenever a probe
// reports the pool unschedulable.
package generator

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
)

// IsFeasible probes whether a pool still admits a full schedule.
type IsFeasible func(p pool.AbstractPool) bool

// randInt returns a uniform integer in [lo, hi].
func randInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func jobAttributes(rng *rand.Rand, maxT, length int, durationRange [2]int) (release, deadline, duration int) {
	release = randInt(rng, 0, maxT-(length-1))
	deadline = release + length - 1
	durationHi := durationRange[1]
	if length < durationHi {
		durationHi = length
	}
	duration = randInt(rng, durationRange[0], durationHi)
	return release, deadline, duration
}

func uniform(rng *rand.Rand, numberOfJobs, maxT int, lengthRange, durationRange [2]int, isFeasible IsFeasible) *pool.JobPool {
	jobPool := pool.NewJobPool()
	for jobPool.Size() != numberOfJobs {
		length := randInt(rng, lengthRange[0], lengthRange[1])
		release, deadline, duration := jobAttributes(rng, maxT, length, durationRange)
		if err := jobPool.AddJob(release, deadline, duration); err != nil {
			panic(err)
		}
		if isFeasible != nil && !isFeasible(jobPool) {
			jobPool.Pop()
		}
	}
	return jobPool
}

// Uniform draws numberOfJobs jobs with window lengths uniform in lengthRange
// and durations uniform in durationRange capped by the window.
func Uniform(rng *rand.Rand, numberOfJobs, maxT int, lengthRange, durationRange [2]int) *pool.JobPool {
	return uniform(rng, numberOfJobs, maxT, lengthRange, durationRange, nil)
}

// FeasibleUniform is Uniform restricted to pools the probe accepts.
func FeasibleUniform(rng *rand.Rand, numberOfJobs, maxT int, lengthRange, durationRange [2]int, isFeasible IsFeasible) *pool.JobPool {
	return uniform(rng, numberOfJobs, maxT, lengthRange, durationRange, isFeasible)
}

func normal(rng *rand.Rand, numberOfJobs, maxT int, lengthMu, lengthSigma float64, durationRange [2]int, isFeasible IsFeasible) *pool.JobPool {
	dist := distuv.Normal{Mu: lengthMu, Sigma: lengthSigma}
	weights := make([]float64, maxT)
	total := 0.0
	for l := 1; l <= maxT; l++ {
		w := dist.CDF(float64(l)+0.5) - dist.CDF(float64(l)-0.5)
		weights[l-1] = w
		total += w
	}

	pickLength := func() int {
		u := rng.Float64() * total
		acc := 0.0
		for l := 1; l <= maxT; l++ {
			acc += weights[l-1]
			if u < acc {
				return l
			}
		}
		return maxT
	}

	jobPool := pool.NewJobPool()
	for jobPool.Size() != numberOfJobs {
		length := pickLength()
		release, deadline, duration := jobAttributes(rng, maxT, length, durationRange)
		if err := jobPool.AddJob(release, deadline, duration); err != nil {
			panic(err)
		}
		if isFeasible != nil && !isFeasible(jobPool) {
			jobPool.Pop()
		}
	}
	return jobPool
}

// Normal draws jobs whose window lengths follow a discretised normal
// distribution over [1, maxT].
func Normal(rng *rand.Rand, numberOfJobs, maxT int, lengthMu, lengthSigma float64, durationRange [2]int) *pool.JobPool {
	return normal(rng, numberOfJobs, maxT, lengthMu, lengthSigma, durationRange, nil)
}

// FeasibleNormal is Normal restricted to pools the probe accepts.
func FeasibleNormal(rng *rand.Rand, numberOfJobs, maxT int, lengthMu, lengthSigma float64, durationRange [2]int, isFeasible IsFeasible) *pool.JobPool {
	return normal(rng, numberOfJobs, maxT, lengthMu, lengthSigma, durationRange, isFeasible)
}

func mi(rng *rand.Rand, numberOfJobs, maxT int, pRange [2]float64, maxDuration int, isFeasible IsFeasible) *pool.JobPoolMI {
	jobPool := pool.NewJobPoolMI()
	for jobPool.Size() != numberOfJobs {
		p := pRange[0] + rng.Float64()*(pRange[1]-pRange[0])

		selected := []int{}
		for t := 0; t <= maxT; t++ {
			if rng.Float64() < p {
				selected = append(selected, t)
			}
		}
		availability := interval.MergeTimestamps(selected)
		durationHi := maxDuration
		if len(selected) < durationHi {
			durationHi = len(selected)
		}
		duration := randInt(rng, 0, durationHi)

		if err := jobPool.AddJob(availability, duration); err != nil {
			panic(err)
		}
		if isFeasible != nil && !isFeasible(jobPool) {
			jobPool.Pop()
		}
	}
	return jobPool
}

// MI draws multi-interval jobs whose availability includes each timestamp of
// [0, maxT] independently with a per-job Bernoulli probability from pRange.
func MI(rng *rand.Rand, numberOfJobs, maxT int, pRange [2]float64, maxDuration int) *pool.JobPoolMI {
	return mi(rng, numberOfJobs, maxT, pRange, maxDuration, nil)
}

// FeasibleMI is MI restricted to pools the probe accepts.
func FeasibleMI(rng *rand.Rand, numberOfJobs, maxT int, pRange [2]float64, maxDuration int, isFeasible IsFeasible) *pool.JobPoolMI {
	return mi(rng, numberOfJobs, maxT, pRange, maxDuration, isFeasible)
}
