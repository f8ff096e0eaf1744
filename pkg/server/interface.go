/*
Package server implements msgpack IPC between an editor host and the suggestion engine.

The host writes msgpack-encoded requests to stdin and reads one msgpack
response per request from stdout. Logs go to stderr, so stdout carries
nothing but responses. The first message written is a ready status.

# IPC

Every request names an op. The cursor position is a rune column in line:

	{"id": "r1", "op": "words", "line": "I saw teh", "col": 9}

Suggestions come back in display order with their rank:

	{"id": "r1", "s": [{"w": "the", "r": 1}, {"w": "tea", "r": 2}], "c": 2, "t": 145, "status": "ok"}

Sentence suggestions use the same shape:

	{"id": "r2", "op": "sentences", "line": "The cat ", "col": 8}

Commits update the models and are persisted by the engine:

	{"op": "commit_word", "word": "cat"}
	{"op": "commit_text", "text": "The cat sat. The cat ran."}

Applying a suggestion returns the new line and the span the choice occupies:

	{"id": "r3", "op": "apply_word", "line": "I saw teh", "col": 9, "chosen": "the"}
	{"id": "r3", "line": "I saw the", "start": 6, "end": 9, "status": "ok"}

A check op scans a whole document and returns every word missing from the
dictionary as rune offsets into text:

	{"id": "r4", "op": "check", "text": "I saw teh dog"}
	{"id": "r4", "m": [{"w": "teh", "b": 6, "e": 9}], "c": 1, "status": "ok"}

A key op forwards one typed rune; letters refresh both lists and a space
commits the finished word. health and stats need no other field.

Requests without an id get a ULID so responses can still be correlated in logs.
*/
package server

// Op names.
const (
	OpWords         = "words"
	OpSentences     = "sentences"
	OpCommitWord    = "commit_word"
	OpCommitText    = "commit_text"
	OpApplyWord     = "apply_word"
	OpApplySentence = "apply_sentence"
	OpKey           = "key"
	OpCheck         = "check"
	OpHealth        = "health"
	OpStats         = "stats"
)

// Request is one host request.
type Request struct {
	ID     string `msgpack:"id"`
	Op     string `msgpack:"op"`
	Line   string `msgpack:"line,omitempty"`
	Col    int    `msgpack:"col,omitempty"`
	Text   string `msgpack:"text,omitempty"`
	Word   string `msgpack:"word,omitempty"`
	Chosen string `msgpack:"chosen,omitempty"`
	Key    string `msgpack:"key,omitempty"`
}

// Suggestion is one ranked suggestion, rank 1 first.
type Suggestion struct {
	Text string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// Misspelling is one unknown word of a checked document.
type Misspelling struct {
	Text  string `msgpack:"w"`
	Start int    `msgpack:"b"`
	End   int    `msgpack:"e"`
}

// Response answers one request.
type Response struct {
	ID          string         `msgpack:"id"`
	Suggestions []Suggestion   `msgpack:"s,omitempty"`
	Sentences   []Suggestion   `msgpack:"ss,omitempty"`
	Misspelled  []Misspelling  `msgpack:"m,omitempty"`
	Count       int            `msgpack:"c"`
	TimeTaken   int64          `msgpack:"t"`
	Line        string         `msgpack:"line,omitempty"`
	Start       int            `msgpack:"start,omitempty"`
	End         int            `msgpack:"end,omitempty"`
	Committed   string         `msgpack:"committed,omitempty"`
	State       string         `msgpack:"state,omitempty"`
	Stats       map[string]int `msgpack:"stats,omitempty"`
	Status      string         `msgpack:"status"`
	Error       string         `msgpack:"e,omitempty"`
	Code        int            `msgpack:"code,omitempty"`
}
