package figma

// VariablesResponse represents the envelope returned by the Figma local variables endpoint
// (GET /v1/files/:key/variables/local). The design graph itself lives under Meta.
type VariablesResponse struct {
	Status int              `json:"status"`
	Error  bool             `json:"error"`
	Meta   VariablesPayload `json:"meta"`
}

// VariablesPayload is the variables export of a single Figma file: every collection and every
// variable keyed by id. Both maps keep the declaration order of the source document, which is
// the order generated output follows.
type VariablesPayload struct {
	VariableCollections Collections `json:"variableCollections"`
	Variables           Variables   `json:"variables"`
}

// VariableCollection represents a named group of variables sharing the same set of modes.
// Modes are kept in declaration order; DefaultModeID must name one of them.
type VariableCollection struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Key                  string   `json:"key,omitempty"`
	Modes                []Mode   `json:"modes"`
	DefaultModeID        string   `json:"defaultModeId"`
	Remote               bool     `json:"remote,omitempty"`
	HiddenFromPublishing bool     `json:"hiddenFromPublishing,omitempty"`
	VariableIDs          []string `json:"variableIds"`
}

// Mode is a named variant axis of a collection, such as "Light" or "Dark".
// ModeID is the stable key used inside a variable's ValuesByMode.
type Mode struct {
	ModeID string `json:"modeId"`
	Name   string `json:"name"`
}

// Variable represents a single design token: a named value scoped to a collection with
// one raw value per mode. ResolvedType, when present, declares the literal kind every
// mode must resolve to (COLOR, FLOAT, STRING or BOOLEAN).
type Variable struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Key                  string            `json:"key,omitempty"`
	VariableCollectionID string            `json:"variableCollectionId"`
	ResolvedType         string            `json:"resolvedType,omitempty"`
	ValuesByMode         ModeValues        `json:"valuesByMode"`
	Description          string            `json:"description"`
	Remote               bool              `json:"remote,omitempty"`
	HiddenFromPublishing bool              `json:"hiddenFromPublishing,omitempty"`
	Scopes               []string          `json:"scopes,omitempty"`
	CodeSyntax           map[string]string `json:"codeSyntax,omitempty"`
}

// Values of Variable.ResolvedType.
const (
	ResolvedTypeColor   = "COLOR"
	ResolvedTypeFloat   = "FLOAT"
	ResolvedTypeString  = "STRING"
	ResolvedTypeBoolean = "BOOLEAN"
)

// Color represents an RGBA color with float values ranging from 0 to 1.
// The R, G, B, and A (alpha/opacity) values must be converted to 0-255 range for standard use.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}
