package models

import (
	"time"

	"github.com/lib/pq"
)

// QAType selects the guideline catalog and pass threshold applied to a record.
type QAType string

const (
	QATypeCS     QAType = "CS"
	QATypeGroups QAType = "Groups"
)

// QATypes lists the evaluation categories in catalog order.
var QATypes = []QAType{QATypeCS, QATypeGroups}

// Valid reports whether the type is a known evaluation category.
func (t QAType) Valid() bool {
	return t == QATypeCS || t == QATypeGroups
}

// Center is the outsourced call center that handled the evaluated call.
type Center string

const (
	CenterTeleperformance Center = "Teleperformance"
	CenterBuwelo          Center = "Buwelo"
	CenterWNS             Center = "WNS"
	CenterConcentrix      Center = "Concentrix"
)

// Centers lists every known call center.
var Centers = []Center{CenterTeleperformance, CenterBuwelo, CenterWNS, CenterConcentrix}

// Valid reports whether the center is one of the known call centers.
func (c Center) Valid() bool {
	for _, center := range Centers {
		if c == center {
			return true
		}
	}
	return false
}

// QaRecord is one evaluation submission stored in the qa_scores table.
type QaRecord struct {
	ID         string         `db:"id" json:"id"`
	Agent      string         `db:"agent" json:"agent"`
	QAType     QAType         `db:"qa_type" json:"qaType"`
	Date       Date           `db:"date" json:"date"`
	Center     Center         `db:"center" json:"center"`
	Score      int            `db:"score" json:"score"`
	Markdowns  pq.StringArray `db:"markdowns" json:"markdowns"`
	CallID     string         `db:"call_id" json:"callId"`
	RequestID  string         `db:"request_id" json:"requestId"`
	Itinerary  string         `db:"itinerary" json:"itinerary"`
	CallLength string         `db:"call_length" json:"callLength"`
	Notes      string         `db:"notes" json:"notes"`
	CreatedBy  string         `db:"created_by" json:"createdBy"`
	Timestamp  time.Time      `db:"timestamp" json:"timestamp"`
}

// HasMarkdowns reports whether any guideline was marked down.
func (r QaRecord) HasMarkdowns() bool {
	return len(r.Markdowns) > 0
}

// RecordPatch carries a partial field set for an update; nil means unchanged.
type RecordPatch struct {
	Agent      *string
	QAType     *QAType
	Date       *Date
	Center     *Center
	Score      *int
	Markdowns  []string
	CallID     *string
	RequestID  *string
	Itinerary  *string
	CallLength *string
	Notes      *string
}

// Empty reports whether the patch changes nothing.
func (p RecordPatch) Empty() bool {
	return p.Agent == nil && p.QAType == nil && p.Date == nil && p.Center == nil && p.Score == nil &&
		p.Markdowns == nil && p.CallID == nil && p.RequestID == nil && p.Itinerary == nil &&
		p.CallLength == nil && p.Notes == nil
}

// Apply returns a copy of the record with the patch applied.
func (p RecordPatch) Apply(r QaRecord) QaRecord {
	if p.Agent != nil {
		r.Agent = *p.Agent
	}
	if p.QAType != nil {
		r.QAType = *p.QAType
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Center != nil {
		r.Center = *p.Center
	}
	if p.Score != nil {
		r.Score = *p.Score
	}
	if p.Markdowns != nil {
		r.Markdowns = append(pq.StringArray{}, p.Markdowns...)
	}
	if p.CallID != nil {
		r.CallID = *p.CallID
	}
	if p.RequestID != nil {
		r.RequestID = *p.RequestID
	}
	if p.Itinerary != nil {
		r.Itinerary = *p.Itinerary
	}
	if p.CallLength != nil {
		r.CallLength = *p.CallLength
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	return r
}

// RecordFilter captures the conjunctive listing criteria; zero values match everything.
type RecordFilter struct {
	Agent  string
	Center Center
	Date   *Date
	QAType QAType
}

// Snapshot is an immutable view of every record as of the last store notification.
// Records are in insertion order (timestamp, then id).
type Snapshot struct {
	Version  uint64     `json:"version"`
	Records  []QaRecord `json:"records"`
	LoadedAt time.Time  `json:"loadedAt"`
}

// Len returns the number of records in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Records)
}
