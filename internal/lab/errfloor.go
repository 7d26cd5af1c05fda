// Public domain.

package lab

// errFloor computes the flux error to use for a point, based on the
// error reported in the file and any configured per-band floor.
func (s *Solver) errFloor(band string, reported float64) float64 {
	floor, ok := s.cfg.ErrFloor[band]
	if !ok {
		// not there, fall back on the default (which also may have been
		// configured, or may be zero meaning no floor).
		floor = s.cfg.ErrFloorDefault
	}
	if floor > reported {
		return floor
	}
	return reported
}
