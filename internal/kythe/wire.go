package kythe

import "encoding/json"

// wireVName is the on-wire representation of a source or target vname.
type wireVName struct {
	Signature string `json:"signature"`
	Path      string `json:"path"`
	Language  string `json:"language"`
	Root      string `json:"root"`
	Corpus    string `json:"corpus"`
}

func (w wireVName) toVName() VName {
	return VName{
		Signature: w.Signature,
		Path:      w.Path,
		Language:  w.Language,
		Root:      w.Root,
		Corpus:    w.Corpus,
	}
}

// wireLine is one decoded JSON line of the Kythe fact stream. Pointer fields
// distinguish "absent" from "present but empty", matching the Python
// decoder's `"target" in data` / `"fact_value" in data` checks. FactValue
// holds the raw base64 text; it is decoded to UTF-8 by the Decoder at
// accumulation time, not here.
type wireLine struct {
	Source    wireVName  `json:"source"`
	Target    *wireVName `json:"target"`
	EdgeKind  *string    `json:"edge_kind"`
	FactName  string     `json:"fact_name"`
	FactValue *string    `json:"fact_value"`
}

func parseLine(line []byte) (wireLine, error) {
	var wl wireLine
	err := json.Unmarshal(line, &wl)
	return wl, err
}
