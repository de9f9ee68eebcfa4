package match

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

// Match filters, scores and orders candidate routes against a query. It is
// a pure computation: candidates typically come from a coarse persistence
// prefilter, and the exact geometry is decided here.
func Match(q Query, candidates []*route.Route) ([]Result, error) {
	if q.RadiusMeters < MinRadiusMeters || q.RadiusMeters > MaxRadiusMeters {
		return nil, ErrInvalidRadius
	}

	results := make([]Result, 0, len(candidates))
	for _, rt := range candidates {
		if res, ok := evaluate(q, rt); ok {
			results = append(results, res)
		}
	}

	// Riders who let the requester arrive soonest after the requested time
	// sort first; route ID breaks ties for determinism.
	sort.Slice(results, func(i, j int) bool {
		ai, aj := results[i].arrivalAtDestination(), results[j].arrivalAtDestination()
		if !ai.Equal(aj) {
			return ai.Before(aj)
		}
		return results[i].RouteID < results[j].RouteID
	})

	return results, nil
}

// evaluate checks a single candidate against the query and, if it matches,
// computes the rendezvous geometry and schedule.
func evaluate(q Query, rt *route.Route) (Result, bool) {
	meetingPt, fStart := rt.Polyline.Closest(q.Start)
	divorcePt, fEnd := rt.Polyline.Closest(q.End)

	// The rider's start must lie strictly before their end along the
	// route's direction of travel: a route ridden the wrong way, or one
	// where both points collapse onto the same spot, never matches.
	if fStart >= fEnd {
		return Result{}, false
	}

	// The route must pass within the radius of both endpoints
	// (closest-approach distance, not endpoint-to-endpoint).
	distToMeeting := geo.Distance(q.Start, meetingPt)
	distFromDivorce := geo.Distance(q.End, divorcePt)
	if distToMeeting > q.RadiusMeters || distFromDivorce > q.RadiusMeters {
		return Result{}, false
	}

	days := rt.Days.Intersect(q.effectiveDays())
	if q.TargetTime != nil {
		if !rt.Days.Has(q.TargetTime.Weekday()) {
			return Result{}, false
		}
	} else if days.IsEmpty() {
		return Result{}, false
	}

	journey := rt.Arrival - rt.Departure
	base := dateBase(q.TargetTime)
	meetingTime := base.Add(rt.Departure + scale(journey, fStart))
	divorceTime := base.Add(rt.Departure + scale(journey, fEnd))

	speed := rt.AverageSpeed()
	length := rt.Polyline.Length()

	return Result{
		RouteID:                  rt.ID,
		OwnerID:                  rt.OwnerID,
		RouteName:                rt.Name,
		MeetingPoint:             rt.Polyline.Interpolate(fStart),
		DivorcePoint:             rt.Polyline.Interpolate(fEnd),
		MeetingTime:              meetingTime,
		DivorceTime:              divorceTime,
		MatchedLength:            (fEnd - fStart) * length,
		AverageSpeed:             speed,
		DistanceToMeetingPoint:   distToMeeting,
		DistanceFromDivorcePoint: distFromDivorce,
		TimeToMeetingPoint:       travelTime(distToMeeting, speed),
		TimeFromDivorcePoint:     travelTime(distFromDivorce, speed),
		Days:                     days,
	}, true
}

// dateBase returns midnight of the query's target date, or of today when no
// target is given.
func dateBase(target *time.Time) time.Time {
	t := time.Now()
	if target != nil {
		t = *target
	}
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// scale returns the fraction f of a journey duration.
func scale(journey time.Duration, f float64) time.Duration {
	return time.Duration(math.Round(f * float64(journey)))
}

// travelTime returns distance over speed, zero-guarded.
func travelTime(meters, metersPerSecond float64) time.Duration {
	if metersPerSecond <= 0 {
		return 0
	}
	return time.Duration(meters / metersPerSecond * float64(time.Second))
}

// ServiceConfig holds configuration for the match service.
type ServiceConfig struct {
	Repository route.Repository
	Index      *Index
	Logger     zerolog.Logger
}

// Service runs match queries against the stored route corpus. Candidates
// come from the in-memory spatial index when one is configured, falling
// back to the repository's bounding-box prefilter.
type Service struct {
	repo   route.Repository
	index  *Index
	logger zerolog.Logger
}

// NewService creates a new match service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		index:  cfg.Index,
		logger: cfg.Logger,
	}
}

// Search finds routes matching the query, ordered best-first.
func (s *Service) Search(ctx context.Context, q Query) ([]Result, error) {
	if q.RadiusMeters < MinRadiusMeters || q.RadiusMeters > MaxRadiusMeters {
		return nil, ErrInvalidRadius
	}

	var (
		candidates []*route.Route
		err        error
	)
	if s.index != nil {
		candidates = s.index.Near(q.Start, q.RadiusMeters)
	} else {
		candidates, err = s.repo.FindNear(ctx, q.Start, q.RadiusMeters)
		if err != nil {
			return nil, err
		}
	}

	results, err := Match(q, candidates)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("candidates", len(candidates)).
		Int("matches", len(results)).
		Float64("radius_m", q.RadiusMeters).
		Msg("match query evaluated")

	return results, nil
}
