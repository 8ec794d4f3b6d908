package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/asteroids3d/internal/object"
	"github.com/tomz197/asteroids3d/internal/physics"
)

func (s *State) newStar() object.Star {
	size := s.rules.Stars.FieldSize
	return object.Star{Position: s.Ship.Position.Add(mgl64.Vec3{
		s.uniform() * size,
		s.uniform() * size,
		s.uniform() * size,
	})}
}

func (s *State) fillStars() {
	for len(s.Stars) < s.rules.Stars.Count {
		s.Stars = append(s.Stars, s.newStar())
	}
}

// updateStars jitters every star, drops the ones too far from the ship
// and refills the field.
func (s *State) updateStars() {
	jitter := s.rules.Stars.Jitter * 2
	limit := s.rules.Stars.RemoveDistance
	ship := s.Ship.Position

	kept := s.Stars[:0]
	for _, st := range s.Stars {
		st.Position = st.Position.Add(mgl64.Vec3{
			s.uniform() * jitter,
			s.uniform() * jitter,
			s.uniform() * jitter,
		})
		if physics.Distance(st.Position, ship) > limit {
			continue
		}
		kept = append(kept, st)
	}
	s.Stars = kept
	s.fillStars()
}
