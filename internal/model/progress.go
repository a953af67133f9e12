package model

// ProgressSnapshot is the per-day aggregate of everything a user
// consumed: whole-unit nutrient totals plus dietary restriction
// violations. Identity is (UserID, Date).
//
// A snapshot read for a day with no data is a zero-valued record that
// has NOT been persisted; callers must not assume durability until a
// save happens.
type ProgressSnapshot struct {
	UserID string `json:"user_id"`
	Date   Date   `json:"date"`

	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Fat      int `json:"fat"`
	Carbs    int `json:"carbs"`
	Sugar    int `json:"sugar"`
	Salt     int `json:"salt"`

	ViolationsCount int           `json:"violations_count"`
	ViolatedTags    []AllergenTag `json:"violated_tags,omitempty"`
}

// ZeroSnapshot returns the default snapshot for a day with no data.
func ZeroSnapshot(userID string, date Date) *ProgressSnapshot {
	return &ProgressSnapshot{UserID: userID, Date: date}
}

// IsZero reports whether the snapshot carries no recorded data.
func (s *ProgressSnapshot) IsZero() bool {
	return s.Calories == 0 && s.Protein == 0 && s.Fat == 0 &&
		s.Carbs == 0 && s.Sugar == 0 && s.Salt == 0 &&
		s.ViolationsCount == 0 && len(s.ViolatedTags) == 0
}

// AddViolation records one violation of tag, keeping ViolatedTags a set.
func (s *ProgressSnapshot) AddViolation(tag AllergenTag) {
	s.ViolationsCount++
	for _, t := range s.ViolatedTags {
		if t == tag {
			return
		}
	}
	s.ViolatedTags = append(s.ViolatedTags, tag)
}
