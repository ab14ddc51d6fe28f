package domain

// ProjectExport is the exportable form of a whole project: the content of
// every role, gathered live from occupants where possible and from storage
// otherwise. It is returned to the requesting connection only.
type ProjectExport struct {
	Name  string       `json:"name"`
	Roles []RoleExport `json:"roles"`
}

type RoleExport struct {
	Name       string `json:"name"`
	SourceCode string `json:"sourceCode"`
	Media      string `json:"media"`
}
