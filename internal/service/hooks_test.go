package service

// SetCodeGenerator replaces the trip code source so tests can force collisions.
func SetCodeGenerator(s *TripService, gen func() (string, error)) {
	s.newCode = gen
}
