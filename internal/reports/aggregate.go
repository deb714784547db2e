// Package reports derives the dashboard figures. Everything here is pure and
// stateless: each dashboard request re-fetches the relevant rows and
// re-aggregates from scratch, the same way every view of the app does.
package reports

import (
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/workflow"
)

// Record is the minimal projection the aggregation needs from any entity.
type Record struct {
	ID         uint    `json:"id"`
	Status     string  `json:"status"`
	Department string  `json:"department"`
	Amount     float64 `json:"amount"`
}

// Bucket is a count plus a money sum for one partition.
type Bucket struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// Summary partitions one entity set by status, by department, and by the
// (status, department) pair.
type Summary struct {
	Total        Bucket                       `json:"total"`
	ByStatus     map[string]Bucket            `json:"by_status"`
	ByDepartment map[string]Bucket            `json:"by_department"`
	Breakdown    map[string]map[string]Bucket `json:"breakdown"` // status -> department -> bucket
}

// Aggregate computes the full partition set for a slice of records.
func Aggregate(records []Record) Summary {
	s := Summary{
		ByStatus:     map[string]Bucket{},
		ByDepartment: map[string]Bucket{},
		Breakdown:    map[string]map[string]Bucket{},
	}

	for _, r := range records {
		s.Total.Count++
		s.Total.Amount += r.Amount

		b := s.ByStatus[r.Status]
		b.Count++
		b.Amount += r.Amount
		s.ByStatus[r.Status] = b

		d := s.ByDepartment[r.Department]
		d.Count++
		d.Amount += r.Amount
		s.ByDepartment[r.Department] = d

		if s.Breakdown[r.Status] == nil {
			s.Breakdown[r.Status] = map[string]Bucket{}
		}
		bd := s.Breakdown[r.Status][r.Department]
		bd.Count++
		bd.Amount += r.Amount
		s.Breakdown[r.Status][r.Department] = bd
	}

	return s
}

// Queue filters the records down to the given role's action queue for one
// entity type: exactly the records sitting on the status whose next approver
// is that role. Roles with no stage on the chain get an empty queue.
func Queue(records []Record, entity workflow.EntityType, actor workflow.Role) []Record {
	want, ok := workflow.QueueStatus(entity, actor)
	if !ok {
		return nil
	}
	var out []Record
	for _, r := range records {
		if r.Status == string(want) {
			out = append(out, r)
		}
	}
	return out
}

// PendingTotal sums every record that has not yet reached a terminal state.
func PendingTotal(records []Record, entity workflow.EntityType) Bucket {
	var b Bucket
	for _, r := range records {
		if !workflow.IsTerminal(entity, workflow.Status(r.Status)) {
			b.Count++
			b.Amount += r.Amount
		}
	}
	return b
}
