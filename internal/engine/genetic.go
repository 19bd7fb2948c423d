package engine

import (
	"context"
	"sort"

	"github.com/piwi3910/CargoFill/internal/model"
)

// GeneticConfig holds parameters for the genetic ordering search.
type GeneticConfig struct {
	PopulationSize int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 30,
		MutationRate:   0.2,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// chromosome is a candidate loading order: a permutation of indices into
// the search's box slice.
type chromosome struct {
	order   []int
	result  model.TrialResult
	fitness float64
}

// runGenetic evolves loading orders. Each generation breeds a full
// population of offspring and evaluates it as one batch on the worker pool,
// so the trial budget, the time limit and the perfect-packing exit apply
// exactly as in the random search. The elites compete with the offspring for
// a place in the next population.
func (s *search) runGenetic(ctx context.Context, cfg GeneticConfig) {
	cfg = normalizeGeneticConfig(cfg)

	population := s.evaluate(s.initPopulation(cfg))
	sortByFitness(population)
	s.logGeneration(population)

	for !s.shouldStop(ctx) {
		offspring := make([]chromosome, 0, cfg.PopulationSize)
		for len(offspring) < cfg.PopulationSize {
			parent1 := s.tournamentSelect(population, cfg.TournamentSize)
			parent2 := s.tournamentSelect(population, cfg.TournamentSize)
			child := s.orderCrossover(parent1, parent2)
			s.mutate(&child, cfg.MutationRate)
			offspring = append(offspring, child)
		}

		eliteCount := min(cfg.EliteCount, len(population))
		next := append(population[:eliteCount:eliteCount], s.evaluate(offspring)...)
		sortByFitness(next)
		population = next[:min(len(next), cfg.PopulationSize)]
		s.logGeneration(population)
	}
}

// geneticConfigFor caps the population, and with it every batch, at the
// settings' batch size.
func geneticConfigFor(settings model.SearchSettings) GeneticConfig {
	cfg := DefaultGeneticConfig()
	cfg.PopulationSize = min(cfg.PopulationSize, settings.BatchSize)
	return cfg
}

// sortByFitness orders chromosomes best first. Equal fitness keeps the
// earlier chromosome first.
func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// normalizeGeneticConfig clamps parameters to usable values.
func normalizeGeneticConfig(cfg GeneticConfig) GeneticConfig {
	if cfg.PopulationSize < 1 {
		cfg.PopulationSize = 1
	}
	if cfg.TournamentSize < 1 {
		cfg.TournamentSize = 1
	}
	if cfg.EliteCount < 0 {
		cfg.EliteCount = 0
	}
	if cfg.EliteCount > cfg.PopulationSize {
		cfg.EliteCount = cfg.PopulationSize
	}
	return cfg
}

// initPopulation creates random orders plus one volume-descending order.
func (s *search) initPopulation(cfg GeneticConfig) []chromosome {
	n := len(s.boxes)
	population := make([]chromosome, cfg.PopulationSize)
	for i := range population {
		population[i] = chromosome{order: s.rng.Perm(n)}
	}

	// Seed one chromosome with the largest-first order to give the GA a
	// good starting point
	population[0] = chromosome{order: s.greedyOrder()}
	return population
}

// greedyOrder returns box indices sorted by volume descending.
func (s *search) greedyOrder() []int {
	order := make([]int, len(s.boxes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return s.boxes[order[i]].Volume() > s.boxes[order[j]].Volume()
	})
	return order
}

// evaluate packs every chromosome in one batch. When the remaining trial
// budget is smaller than the batch, the surplus chromosomes are dropped.
func (s *search) evaluate(pop []chromosome) []chromosome {
	if remaining := s.settings.MaxTrials - s.trials; len(pop) > remaining {
		pop = pop[:remaining]
	}
	results := s.runBatch(len(pop), func(i int) model.TrialResult {
		return PlaceSequence(s.container, s.ordered(pop[i].order))
	})
	for i := range pop {
		pop[i].result = results[i]
		pop[i].fitness = geneticFitness(results[i])
	}
	s.consider(results)
	return pop
}

// ordered materialises a chromosome as a private slice of boxes.
func (s *search) ordered(order []int) []model.Box {
	boxes := make([]model.Box, len(order))
	for i, idx := range order {
		boxes[i] = s.boxes[idx]
	}
	return boxes
}

// geneticFitness rewards fill ratio and penalizes unplaced boxes heavily.
func geneticFitness(r model.TrialResult) float64 {
	fitness := r.FillRatio - float64(len(r.Unplaced))*0.1
	if fitness < 0 {
		fitness = 0
	}
	return fitness
}

func (s *search) logGeneration(population []chromosome) {
	s.logger.Debug("generation finished",
		"batch", s.batches,
		"trials", s.trials,
		"population", len(population),
		"best_unplaced", len(s.best.Unplaced),
		"best_fill_ratio", s.best.FillRatio,
	)
}

// tournamentSelect picks the best individual from a random tournament.
func (s *search) tournamentSelect(population []chromosome, size int) chromosome {
	best := population[s.rng.Intn(len(population))]
	for i := 1; i < size; i++ {
		candidate := population[s.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
// It preserves the relative order of genes from both parents.
func (s *search) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.order)
	if n <= 2 {
		return copyChromosome(parent1)
	}

	point1 := s.rng.Intn(n)
	point2 := s.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{order: make([]int, n)}

	// Copy segment from parent1
	inSegment := make(map[int]bool)
	for i := point1; i <= point2; i++ {
		child.order[i] = parent1.order[i]
		inSegment[parent1.order[i]] = true
	}

	// Fill remaining positions with genes from parent2 in order
	childIdx := (point2 + 1) % n
	for _, g := range parent2.order {
		if !inSegment[g] {
			child.order[childIdx] = g
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap and inversion mutations.
func (s *search) mutate(c *chromosome, rate float64) {
	n := len(c.order)
	if n < 2 {
		return
	}

	if s.rng.Float64() < rate {
		i := s.rng.Intn(n)
		j := s.rng.Intn(n)
		c.order[i], c.order[j] = c.order[j], c.order[i]
	}

	// Inversion: reverse a segment (less frequent)
	if s.rng.Float64() < rate*0.5 {
		i := s.rng.Intn(n)
		j := s.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.order[i], c.order[j] = c.order[j], c.order[i]
			i++
			j--
		}
	}
}

// copyChromosome returns a chromosome with its own order slice. The result
// is dropped since the copy is about to be changed.
func copyChromosome(c chromosome) chromosome {
	order := make([]int, len(c.order))
	copy(order, c.order)
	return chromosome{order: order}
}
