package emotion

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Input carries the descriptive fields of a show that the classifier reads.
// Zero values are fine: empty text and nil genres simply match no rules.
type Input struct {
	Overview         string
	Name             string
	GenreIDs         []int
	VoteAverage      float64
	OriginalLanguage string
}

// TMDB genre ids used by the rules.  Movie and TV ids overlap for the
// shared genres (comedy, drama, ...) and differ for the combined TV ones.
const (
	genreAction       = 28
	genreAdventure    = 12
	genreAnimation    = 16
	genreComedy       = 35
	genreCrime        = 80
	genreDocumentary  = 99
	genreDrama        = 18
	genreFamily       = 10751
	genreFantasy      = 14
	genreHistory      = 36
	genreHorror       = 27
	genreMusic        = 10402
	genreMystery      = 9648
	genreRomance      = 10749
	genreSciFi        = 878
	genreTVMovie      = 10770
	genreThriller     = 53
	genreWar          = 10752
	genreWestern      = 37
	genreActionAdv    = 10759
	genreKids         = 10762
	genreNews         = 10763
	genreReality      = 10764
	genreSciFiFantasy = 10765
	genreSoap         = 10766
	genreTalk         = 10767
	genreWarPolitics  = 10768
)

var genreRules = map[int][]Emotion{
	genreAction:       {Excited},
	genreAdventure:    {Excited},
	genreActionAdv:    {Excited},
	genreAnimation:    {Playful},
	genreComedy:       {Happy, Playful},
	genreCrime:        {Tense},
	genreDocumentary:  {Thoughtful, Reflective},
	genreDrama:        {Emotional, Reflective},
	genreFamily:       {Happy},
	genreFantasy:      {Weird},
	genreHistory:      {Reflective},
	genreHorror:       {Fearful},
	genreMusic:        {Happy},
	genreMystery:      {Mysterious},
	genreRomance:      {Romantic},
	genreSciFi:        {Thoughtful},
	genreSciFiFantasy: {Weird, Thoughtful},
	genreTVMovie:      {Chill},
	genreThriller:     {Tense},
	genreWar:          {Angry, Sad},
	genreWarPolitics:  {Angry},
	genreWestern:      {Lonely},
	genreKids:         {Playful},
	genreNews:         {Thoughtful},
	genreReality:      {Chill},
	genreSoap:         {Emotional, Romantic},
	genreTalk:         {Chill},
}

// keywordRules maps a word stem to labels.  A stem matches any token that
// starts with it, so "murder" also catches "murders" and "murderer".
var keywordRules = map[string][]Emotion{
	// romance
	"love":       {Romantic},
	"romanc":     {Romantic},
	"wedding":    {Romantic, Happy},
	"marri":      {Romantic},
	"heartbreak": {Sad, Emotional},
	// crime and suspense
	"murder":     {Tense, Mysterious},
	"killer":     {Tense, Fearful},
	"detective":  {Mysterious},
	"investigat": {Mysterious},
	"heist":      {Excited, Tense},
	"hostage":    {Tense},
	"conspira":   {Mysterious, Tense},
	"mystery":    {Mysterious},
	"mysteri":    {Mysterious},
	"secret":     {Mysterious},
	"disappear":  {Mysterious},
	"vanish":     {Mysterious},
	// horror
	"haunt":      {Fearful},
	"ghost":      {Fearful},
	"demon":      {Fearful},
	"terror":     {Fearful},
	"nightmare":  {Fearful},
	"monster":    {Fearful},
	"curse":      {Fearful, Mysterious},
	// anger
	"revenge":    {Angry},
	"vengeance":  {Angry},
	"betray":     {Angry},
	"rage":       {Angry},
	"corrupt":    {Angry},
	"warfare":    {Angry, Sad},
	"wartime":    {Angry, Sad},
	// sadness
	"grief":      {Sad},
	"griev":      {Sad},
	"tragedy":    {Sad},
	"tragic":     {Sad},
	"death":      {Sad},
	"dying":      {Sad},
	"funeral":    {Sad},
	"loss":       {Sad},
	// loneliness
	"alone":      {Lonely},
	"lonel":      {Lonely},
	"isolat":     {Lonely},
	"solitud":    {Lonely},
	"exile":      {Lonely},
	"stranded":   {Lonely},
	// joy
	"friend":     {Happy},
	"hilari":     {Happy, Playful},
	"laugh":      {Happy},
	"comedy":     {Happy, Playful},
	"prank":      {Playful},
	"mischie":    {Playful},
	"silly":      {Playful},
	"celebrat":   {Happy},
	// excitement
	"adventur":   {Excited},
	"battle":     {Excited},
	"race":       {Excited},
	"explos":     {Excited},
	"chase":      {Excited, Tense},
	"quest":      {Excited},
	"superhero":  {Excited},
	// calm
	"cozy":       {Chill},
	"relax":      {Chill},
	"cooking":    {Chill},
	"bake":       {Chill},
	"garden":     {Chill},
	"travel":     {Chill},
	"calm":       {Chill, Sleepy},
	"dream":      {Sleepy},
	"lullab":     {Sleepy},
	"bedtime":    {Sleepy},
	"meditat":    {Sleepy, Reflective},
	"sleep":      {Sleepy},
	// strangeness
	"bizarre":    {Weird},
	"strange":    {Weird},
	"surreal":    {Weird},
	"alien":      {Weird},
	"weird":      {Weird},
	"dimension":  {Weird},
	"multivers":  {Weird},
	"absurd":     {Weird, Playful},
	// reflection
	"philosoph":  {Thoughtful},
	"meaning":    {Thoughtful},
	"identity":   {Thoughtful, Reflective},
	"memor":      {Reflective},
	"nostalg":    {Reflective},
	"regret":     {Reflective, Sad},
	"redemption": {Reflective, Emotional},
	// emotion
	"tears":      {Emotional},
	"emotion":    {Emotional},
	"struggl":    {Emotional},
	"sacrific":   {Emotional},
	"reunit":     {Emotional, Happy},
}

var tokenSplit = regexp.MustCompile(`[^\p{L}\p{N}]+`)

var (
	japanese  = mustBase(language.Japanese)
	eastAsian = []language.Base{
		mustBase(language.Korean),
		mustBase(language.Japanese),
		mustBase(language.Chinese),
		mustBase(language.Thai),
	}
)

func mustBase(t language.Tag) language.Base {
	b, _ := t.Base()
	return b
}

// Classify maps a show's descriptive fields to a set of emotion labels.  It
// has no side effects and returns a new slice on every call, in canonical
// enumeration order with no duplicates.
func Classify(in Input) []Emotion {
	var s set

	genres := make(map[int]bool, len(in.GenreIDs))
	for _, g := range in.GenreIDs {
		genres[g] = true
		s.add(genreRules[g]...)
	}

	for _, tok := range tokens(in.Name + " " + in.Overview) {
		for stem, labels := range keywordRules {
			if strings.HasPrefix(tok, stem) {
				s.add(labels...)
			}
		}
	}

	switch {
	case in.VoteAverage >= 8.0:
		s.add(Thoughtful)
	case in.VoteAverage > 0 && in.VoteAverage < 4.0:
		s.add(Weird)
	}

	if base, ok := languageBase(in.OriginalLanguage); ok {
		if isEastAsian(base) && (genres[genreDrama] || genres[genreSoap]) {
			s.add(Emotional)
		}
		if base == japanese && genres[genreAnimation] {
			s.add(Weird)
		}
	}

	return s.list()
}

// tokens case-folds text and splits it on runs of anything that is not a
// letter or digit.  Tokens shorter than three runes are dropped.  A Caser
// keeps state, so each call builds its own.
func tokens(text string) []string {
	folded := cases.Fold().String(text)
	raw := tokenSplit.Split(folded, -1)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if len([]rune(t)) < 3 {
			continue
		}
		out = append(out, t)
	}
	return out
}

func languageBase(code string) (language.Base, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return language.Base{}, false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Base{}, false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return language.Base{}, false
	}
	return base, true
}

func isEastAsian(b language.Base) bool {
	for _, e := range eastAsian {
		if b == e {
			return true
		}
	}
	return false
}
