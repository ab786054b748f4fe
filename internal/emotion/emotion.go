// Package emotion holds the closed set of mood labels a show can carry and
// the rule-based classifier that assigns them.
package emotion

// Emotion is one label from the closed enumeration below.
type Emotion string

const (
	Happy      Emotion = "happy"
	Sad        Emotion = "sad"
	Excited    Emotion = "excited"
	Romantic   Emotion = "romantic"
	Mysterious Emotion = "mysterious"
	Tense      Emotion = "tense"
	Fearful    Emotion = "fearful"
	Angry      Emotion = "angry"
	Reflective Emotion = "reflective"
	Chill      Emotion = "chill"
	Sleepy     Emotion = "sleepy"
	Weird      Emotion = "weird"
	Lonely     Emotion = "lonely"
	Thoughtful Emotion = "thoughtful"
	Playful    Emotion = "playful"
	Emotional  Emotion = "emotional"
)

// all is the canonical order.  The ENUM on show_emotions.emotion in
// database/schema.sql must list the same values; schema_test.go checks it.
var all = [...]Emotion{
	Happy, Sad, Excited, Romantic, Mysterious, Tense, Fearful, Angry,
	Reflective, Chill, Sleepy, Weird, Lonely, Thoughtful, Playful, Emotional,
}

var rank = func() map[Emotion]int {
	m := make(map[Emotion]int, len(all))
	for i, e := range all {
		m[e] = i
	}
	return m
}()

// All returns a fresh copy of the enumeration in canonical order.
func All() []Emotion {
	out := make([]Emotion, len(all))
	copy(out, all[:])
	return out
}

// Strings returns All as plain strings.
func Strings() []string {
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = string(e)
	}
	return out
}

// Valid reports whether s names a member of the enumeration.
func Valid(s string) bool {
	_, ok := rank[Emotion(s)]
	return ok
}

// Parse converts s into an Emotion.
func Parse(s string) (Emotion, bool) {
	if !Valid(s) {
		return "", false
	}
	return Emotion(s), true
}

// set accumulates labels and emits them in canonical order.
type set [len(all)]bool

func (s *set) add(es ...Emotion) {
	for _, e := range es {
		if i, ok := rank[e]; ok {
			s[i] = true
		}
	}
}

func (s *set) has(e Emotion) bool {
	i, ok := rank[e]
	return ok && s[i]
}

func (s *set) list() []Emotion {
	out := make([]Emotion, 0, len(all))
	for i, on := range s {
		if on {
			out = append(out, all[i])
		}
	}
	return out
}
