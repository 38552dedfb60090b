package assignment

// Apply maps a matching back to identifiers.
//
// The result has one key per entry of projects. A project whose pair lands on
// a padding column, and any pair on a padding row, contributes no assignment;
// such projects map to nil.
func Apply(m Matching, projects []ProjectID, people []PersonID) map[ProjectID]*PersonID {
	out := make(map[ProjectID]*PersonID, len(projects))
	for _, id := range projects {
		out[id] = nil
	}
	for _, pair := range m {
		if pair.Row < 0 || pair.Row >= len(projects) || pair.Col < 0 || pair.Col >= len(people) {
			continue
		}
		person := people[pair.Col]
		out[projects[pair.Row]] = &person
	}
	return out
}
