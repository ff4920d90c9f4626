package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"cozetik-backend/internal/llm"
	"cozetik-backend/internal/shared/metrics"
	"cozetik-backend/internal/shared/telemetry"
)

// ErrNoAnswers is returned when no single-choice question was answered.
var ErrNoAnswers = errors.New("no quiz answers")

// AnswerError rejects an unknown question id or option.
type AnswerError struct {
	QuestionID string
	Value      string
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("invalid answer %q for question %q", e.Value, e.QuestionID)
}

// Formation is one recommended programme with its justification.
type Formation struct {
	Name   string `json:"name" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

// Recommendation mirrors the document produced by the model.
type Recommendation struct {
	ProfilAnalysis       string      `json:"profil_analysis" validate:"required"`
	PrincipalProgram     Formation   `json:"principal_program"`
	ComplementaryModules []Formation `json:"complementary_modules" validate:"min=1,max=2,dive"`
	MotivationMessage    string      `json:"motivation_message" validate:"required"`
}

// Result is the public response: the recommendation plus how it was made.
type Result struct {
	Recommendation
	Profile ProfileSummary `json:"profile"`
	Tally   map[string]int `json:"tally"`
	Source  string         `json:"source"`
}

type ProfileSummary struct {
	Letter string `json:"letter"`
	Name   string `json:"name"`
}

const (
	SourceAI     = "ai"
	SourceStatic = "static"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Service computes quiz recommendations.
type Service struct {
	Catalog   *Catalog
	Completer llm.Completer
}

type resolvedAnswer struct {
	question Question
	letter   string
	text     string
}

// Recommend tallies answers, picks the dominant profile and asks the model
// for a personalised recommendation, falling back to the static profile.
func (s *Service) Recommend(ctx context.Context, answers map[string]string) (Result, error) {
	resolved, stress, err := s.resolve(answers)
	if err != nil {
		return Result{}, err
	}
	tally := Tally(resolved)
	letter := Dominant(tally)
	profile, _ := s.Catalog.Profile(letter)

	res := Result{
		Profile: ProfileSummary{Letter: profile.Letter, Name: profile.Name},
		Tally:   tally,
	}

	if s.Completer != nil {
		rec, err := s.complete(ctx, resolved, stress, tally, profile)
		if err == nil {
			res.Recommendation = rec
			res.Source = SourceAI
			metrics.IncSubmission("quiz", SourceAI)
			return res, nil
		}
		if !errors.Is(err, llm.ErrNotConfigured) {
			telemetry.Warn("quiz.llm_fallback", map[string]any{
				"request_id": telemetry.RequestID(ctx),
				"profile":    letter,
				"error":      err,
			})
		}
	}
	res.Recommendation = staticRecommendation(profile)
	res.Source = SourceStatic
	metrics.IncSubmission("quiz", SourceStatic)
	return res, nil
}

// resolve maps raw answers onto catalog options. Values may be the option
// letter or its exact text; the scale question takes an integer.
func (s *Service) resolve(answers map[string]string) ([]resolvedAnswer, int, error) {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []resolvedAnswer
	stress := 0
	for _, id := range ids {
		raw := strings.TrimSpace(answers[id])
		q, ok := s.Catalog.question(id)
		if !ok {
			return nil, 0, &AnswerError{QuestionID: id, Value: raw}
		}
		switch q.Type {
		case TypeScale:
			n, err := strconv.Atoi(raw)
			if err != nil || n < q.ScaleMin || n > q.ScaleMax {
				return nil, 0, &AnswerError{QuestionID: id, Value: raw}
			}
			stress = n
		default:
			opt, ok := matchOption(q, raw)
			if !ok {
				return nil, 0, &AnswerError{QuestionID: id, Value: raw}
			}
			out = append(out, resolvedAnswer{question: q, letter: opt.Letter, text: opt.Text})
		}
	}
	if len(out) == 0 {
		return nil, 0, ErrNoAnswers
	}
	return out, stress, nil
}

func matchOption(q Question, raw string) (Option, bool) {
	for _, opt := range q.Options {
		if strings.EqualFold(raw, opt.Letter) || raw == opt.Text {
			return opt, true
		}
	}
	return Option{}, false
}

// Tally counts answers per letter. Every letter is present.
func Tally(answers []resolvedAnswer) map[string]int {
	tally := make(map[string]int, len(Letters))
	for _, l := range Letters {
		tally[l] = 0
	}
	for _, a := range answers {
		tally[a.letter]++
	}
	return tally
}

// Dominant returns the most frequent letter; ties go to the earliest letter.
func Dominant(tally map[string]int) string {
	best := Letters[0]
	for _, l := range Letters[1:] {
		if tally[l] > tally[best] {
			best = l
		}
	}
	return best
}

func staticRecommendation(p Profile) Recommendation {
	rec := Recommendation{
		ProfilAnalysis: fmt.Sprintf("%s : ton blocage racine est %s. Ce que tu cherches vraiment : %s.", p.Name, p.RootBlocker, p.Desire),
		PrincipalProgram: Formation{
			Name:   p.SignatureProgram,
			Reason: fmt.Sprintf("C'est le programme signature du profil %s, pensé pour %s.", p.Name, p.Desire),
		},
		MotivationMessage: p.MirrorPhrase,
	}
	for _, m := range p.ComplementaryModules {
		rec.ComplementaryModules = append(rec.ComplementaryModules, Formation{
			Name:   m,
			Reason: "Complète ton programme signature pour ancrer tes progrès.",
		})
	}
	return rec
}

func (s *Service) complete(ctx context.Context, answers []resolvedAnswer, stress int, tally map[string]int, p Profile) (Recommendation, error) {
	raw, err := s.Completer.Complete(ctx, llm.Request{
		System: strings.Replace(systemPromptTemplate, "{{CATALOG}}", s.Catalog.programs(), 1),
		User:   userPrompt(answers, stress, tally, p),
	})
	if err != nil {
		return Recommendation{}, err
	}
	var rec Recommendation
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Recommendation{}, fmt.Errorf("decode recommendation: %w", err)
	}
	if err := validate.Struct(rec); err != nil {
		return Recommendation{}, fmt.Errorf("invalid recommendation: %w", err)
	}
	return rec, nil
}

func userPrompt(answers []resolvedAnswer, stress int, tally map[string]int, p Profile) string {
	var b strings.Builder
	b.WriteString("Voici les réponses du candidat :\n")
	for _, a := range answers {
		fmt.Fprintf(&b, "- %s : %s (%s)\n", a.question.Question, a.text, a.letter)
	}
	if stress > 0 {
		fmt.Fprintf(&b, "- Niveau de stress (1 à 5) : %d\n", stress)
	}
	b.WriteString("\nDécompte par lettre :")
	for _, l := range Letters {
		fmt.Fprintf(&b, " %s=%d", l, tally[l])
	}
	fmt.Fprintf(&b, "\n\nProfil dominant : %s (%s). Blocage racine : %s. Désir : %s. Programme signature : %s. Modules : %s.",
		p.Letter, p.Name, p.RootBlocker, p.Desire, p.SignatureProgram, strings.Join(p.ComplementaryModules, ", "))
	return b.String()
}
