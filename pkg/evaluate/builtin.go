package evaluate

import (
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/catalog"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/service"
)

// RegisterBuiltins registers the evaluator for every condition kind the
// catalog schema accepts. Bootstrap calls this once; wiring validation
// then checks the loaded catalog only uses registered kinds.
func RegisterBuiltins(r *Registry) error {
	builtins := map[catalog.ConditionKind]Func{
		catalog.KindCountThreshold:  CountThreshold,
		catalog.KindStreakThreshold: StreakThreshold,
		catalog.KindRatingThreshold: RatingThreshold,
		catalog.KindCompositeAll:    CompositeAll,
		catalog.KindCompositeAny:    CompositeAny,
	}

	for kind, fn := range builtins {
		if err := r.Register(kind, fn); err != nil {
			return err
		}
	}
	return nil
}

// CountThreshold compares a player counter against the target.
func CountThreshold(snapshot *service.PlayerSnapshot, spec catalog.ConditionSpec, _ ProgressLookup) (Result, error) {
	counter := snapshot.Counter(spec.Counter)
	return thresholdResult(counter, spec.Target), nil
}

// StreakThreshold compares the player's best streak ever against the
// target. Best-streak semantics keep achieved state sticky even when the
// current streak resets.
func StreakThreshold(snapshot *service.PlayerSnapshot, spec catalog.ConditionSpec, _ ProgressLookup) (Result, error) {
	best := snapshot.BestStreak(spec.Streak)
	return thresholdResult(best, spec.Target), nil
}

// RatingThreshold checks the player's current rating in a game type
// against the target. A player with no rated games in the type has zero
// progress.
func RatingThreshold(snapshot *service.PlayerSnapshot, spec catalog.ConditionSpec, _ ProgressLookup) (Result, error) {
	rating, rated := snapshot.Rating(spec.GameType)
	if !rated {
		return Result{}, nil
	}
	return thresholdResult(rating, spec.Target), nil
}

// CompositeAll requires every referenced achievement to be achieved.
// Progress is the average of the referenced percentages.
func CompositeAll(_ *service.PlayerSnapshot, spec catalog.ConditionSpec, lookup ProgressLookup) (Result, error) {
	if len(spec.Of) == 0 {
		return Result{}, nil
	}

	sum := 0
	achievedCount := 0
	for _, id := range spec.Of {
		percent, achieved := lookup(id)
		sum += percent
		if achieved {
			achievedCount++
		}
	}

	return Result{
		PercentComplete: clampPercent(sum / len(spec.Of)),
		Achieved:        achievedCount == len(spec.Of),
	}, nil
}

// CompositeAny requires any one referenced achievement to be achieved.
// Progress is the maximum of the referenced percentages.
func CompositeAny(_ *service.PlayerSnapshot, spec catalog.ConditionSpec, lookup ProgressLookup) (Result, error) {
	best := 0
	anyAchieved := false
	for _, id := range spec.Of {
		percent, achieved := lookup(id)
		if percent > best {
			best = percent
		}
		if achieved {
			anyAchieved = true
		}
	}

	return Result{
		PercentComplete: clampPercent(best),
		Achieved:        anyAchieved,
	}, nil
}

// thresholdResult computes percent and achieved for value-vs-target
// conditions. The catalog guarantees target >= 1.
func thresholdResult(value, target int) Result {
	if value >= target {
		return Result{PercentComplete: 100, Achieved: true}
	}
	if value <= 0 {
		return Result{}
	}
	return Result{PercentComplete: clampPercent(value * 100 / target)}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
