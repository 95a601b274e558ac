package model

// ReservationRow is one canonical row of the external reservation table.
// The upstream workflow emits records with either English or Korean field
// names; internal/webhook normalizes both shapes into this type.
type ReservationRow struct {
	Room      string `json:"room"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
}
