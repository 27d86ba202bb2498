package support

import (
	"log/slog"
	"math"

	"github.com/nfrund/hostkit/internal/host"
)

// Objective returns the named objective handle.
func (s *Support) Objective(name string) (host.Objective, error) {
	objective, ok := s.scoreboard.Objective(name)
	if !ok {
		return nil, NewError(ErrorTypeObjectiveNotFound, "scoreboard", name, "objective not found", nil)
	}
	return objective, nil
}

// Score applies action to actor's score on the named objective. For Read, ok
// is false when the actor has no score recorded; mutations always report the
// resulting score with ok set.
func (s *Support) Score(actor host.Actor, objective string, action Action) (score int, ok bool, err error) {
	obj, err := s.Objective(objective)
	if err != nil {
		return 0, false, err
	}

	switch action.Kind {
	case ActionRead:
		return obj.Score(actor)
	case ActionAdd:
		score, err = obj.AddScore(actor, action.Value)
	case ActionSet:
		score, err = obj.SetScore(actor, action.Value)
	case ActionSubtract:
		if action.Value == math.MinInt {
			return 0, false, NewError(ErrorTypeInvalidArgument, "scoreboard", objective, "subtract delta cannot be negated", nil)
		}
		score, err = obj.AddScore(actor, -action.Value)
	default:
		return 0, false, NewError(ErrorTypeInvalidArgument, "scoreboard", action.String(), "unknown score action", nil)
	}
	if err != nil {
		return 0, false, err
	}

	slog.Debug("Score updated",
		"objective", objective,
		"actor", actor.ID(),
		"action", action.String(),
		"score", score,
	)
	return score, true, nil
}
