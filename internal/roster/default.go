package roster

// Default returns the built-in roster of candidates with profile pages.
func Default() *Roster {
	return &Roster{Candidates: []Candidate{
		{Name: "Angela Allen", Slug: "angela-allen"},
		{Name: "April Ryan", Slug: "april-ryan"},
		{Name: "Bradley Porter", Slug: "bradley-porter"},
		{Name: "Carrie Isaac", Slug: "carrie-isaac"},
		{Name: "Donna Campbell", Slug: "donna-campbell"},
		{Name: "D. Lee Edwards", Slug: "d-lee-edwards"},
		{Name: "Doug Leecock", Slug: "doug-leecock"},
		{Name: "Jen Crownover", Slug: "jen-crownover"},
		{Name: "Jonathon Frazier", Slug: "jonathon-frazier"},
		{Name: "Kevin Webb", Slug: "kevin-webb"},
		{Name: "Lawrence Spradley", Slug: "lawrence-spradley"},
		{Name: "Mary Ann Labowski", Slug: "mary-ann-labowski"},
		{Name: "Michael Capizzi", Slug: "michael-capizzi"},
		{Name: "Michael French", Slug: "michael-french"},
		{Name: "Neal Linnartz", Slug: "neal-linnartz"},
		{Name: "Scott Haag", Slug: "scott-haag"},
		{Name: "Toni Carter", Slug: "toni-carter"},
	}}
}
