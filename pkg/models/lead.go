package models

// TestLead is the simulation subject for a dry run: a read-only snapshot of
// a lead record, or a synthetic stand-in when none is selected.
type TestLead struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Stage  string         `json:"stage"`
	Score  float64        `json:"score"`
	Tags   []string       `json:"tags,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Env flattens the lead into the environment map condition expressions are
// evaluated against. Custom fields are exposed top-level but never shadow
// the built-in ones.
func (l *TestLead) Env() map[string]any {
	env := make(map[string]any, len(l.Fields)+6)

	for k, v := range l.Fields {
		env[k] = v
	}

	env["id"] = l.ID
	env["name"] = l.Name
	env["email"] = l.Email
	env["stage"] = l.Stage
	env["score"] = l.Score
	env["tags"] = l.Tags
	env["fields"] = l.Fields

	return env
}

// SyntheticLead returns the mock simulation subject used when the user does
// not pick a concrete lead.
func SyntheticLead() *TestLead {
	return &TestLead{
		ID:    "lead-synthetic",
		Name:  "Sample Lead",
		Email: "sample.lead@example.com",
		Stage: "new",
		Score: 50,
		Tags:  []string{"sample"},
		Fields: map[string]any{
			"company": "Example Inc",
			"source":  "import",
		},
	}
}
