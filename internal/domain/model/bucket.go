package model

import "encoding/json"

// EventDetails is the event metadata attached to a bucket.
type EventDetails struct {
	Name      string        `json:"name"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Location  EventLocation `json:"location"`
	Stats     EventStats    `json:"stats"`
}

// EventBucket groups a team's matches at one event. Matches is never empty.
type EventBucket struct {
	Details EventDetails      `json:"details"`
	Matches []NormalizedMatch `json:"matches"`
}

// EventBuckets maps event codes to buckets and remembers insertion order.
type EventBuckets struct {
	codes  []string
	byCode map[string]EventBucket
}

// NewEventBuckets returns an empty map.
func NewEventBuckets() *EventBuckets {
	return &EventBuckets{byCode: make(map[string]EventBucket)}
}

// Put stores bucket under code. Re-putting a code replaces the bucket and
// keeps its original position.
func (b *EventBuckets) Put(code string, bucket EventBucket) {
	if _, ok := b.byCode[code]; !ok {
		b.codes = append(b.codes, code)
	}
	b.byCode[code] = bucket
}

// Get returns the bucket for code.
func (b *EventBuckets) Get(code string) (EventBucket, bool) {
	if b == nil {
		return EventBucket{}, false
	}
	bucket, ok := b.byCode[code]
	return bucket, ok
}

// Codes returns event codes in insertion order.
func (b *EventBuckets) Codes() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.codes))
	copy(out, b.codes)
	return out
}

// Len returns the number of buckets.
func (b *EventBuckets) Len() int {
	if b == nil {
		return 0
	}
	return len(b.codes)
}

// Matches flattens every bucket's matches in bucket order.
func (b *EventBuckets) Matches() []NormalizedMatch {
	if b == nil {
		return nil
	}
	var out []NormalizedMatch
	for _, code := range b.codes {
		out = append(out, b.byCode[code].Matches...)
	}
	return out
}

// bucketJSON is the wire form of one ordered entry.
type bucketJSON struct {
	Code string `json:"code"`
	EventBucket
}

// MarshalJSON encodes the buckets as an ordered array so that clients see
// the processing order.
func (b *EventBuckets) MarshalJSON() ([]byte, error) {
	out := make([]bucketJSON, 0, b.Len())
	if b != nil {
		for _, code := range b.codes {
			out = append(out, bucketJSON{Code: code, EventBucket: b.byCode[code]})
		}
	}
	return json.Marshal(out)
}
