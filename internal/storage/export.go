package storage

import (
	"io"

	"github.com/san-kum/sems/internal/report"
)

// ExportJSON writes a stored run as a report document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	_, res, err := s.LoadResult(runID)
	if err != nil {
		return err
	}
	return report.WriteJSON(w, report.NewDocument(res))
}

// ExportCSV copies the stored fits of a run to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	fits, err := s.LoadFits(runID)
	if err != nil {
		return err
	}
	return report.WriteCSV(w, fits)
}
