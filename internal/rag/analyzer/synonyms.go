package analyzer

// Keyword expansion only ever adds terms, it never removes the original
// keyword.
var synonymTable = map[string][]string{
	"skills":     {"expertise", "abilities", "competencies", "proficiencies"},
	"skill":      {"expertise", "ability", "competency"},
	"experience": {"background", "history", "work"},
	"education":  {"degree", "qualification", "studies", "university"},
	"summary":    {"overview", "abstract", "synopsis"},
	"document":   {"file", "paper", "report"},
	"documents":  {"files", "papers", "reports"},
	"contact":    {"email", "phone", "address"},
	"job":        {"position", "role", "employment"},
	"company":    {"employer", "organization", "firm"},
	"project":    {"initiative", "work", "undertaking"},
	"salary":     {"compensation", "pay", "income"},
	"date":       {"time", "when", "period"},
	"name":       {"person", "individual"},
}

var stopWords = map[string]bool{
	"the": true, "and": true, "are": true, "was": true, "were": true,
	"for": true, "with": true, "this": true, "that": true, "from": true,
	"have": true, "has": true, "had": true, "what": true, "which": true,
	"who": true, "when": true, "where": true, "how": true, "why": true,
	"can": true, "could": true, "would": true, "should": true, "does": true,
	"did": true, "about": true, "into": true, "than": true, "then": true,
	"them": true, "they": true, "their": true, "there": true, "here": true,
	"you": true, "your": true, "all": true, "any": true, "not": true,
	"but": true, "out": true, "get": true, "her": true, "his": true,
	"its": true, "our": true, "she": true, "him": true, "these": true,
	"those": true, "please": true, "tell": true, "show": true, "give": true,
}
