package quiz

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozetik-backend/internal/llm"
)

type fakeCompleter struct {
	mu   sync.Mutex
	out  string
	err  error
	reqs []llm.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.out, f.err
}

func newService(t *testing.T, completer llm.Completer) *Service {
	t.Helper()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	return &Service{Catalog: catalog, Completer: completer}
}

func TestDefaultCatalogShape(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	singles := 0
	for _, q := range catalog.Questions {
		if q.Type == TypeSingle {
			singles++
			assert.Len(t, q.Options, 8, q.ID)
		}
	}
	assert.Equal(t, 10, singles)
	assert.Len(t, catalog.Profiles, 8)
}

func TestDominantTieGoesToEarliestLetter(t *testing.T) {
	tally := map[string]int{"A": 0, "B": 3, "C": 1, "D": 3, "E": 0, "F": 0, "G": 0, "H": 3}
	assert.Equal(t, "B", Dominant(tally))

	assert.Equal(t, "A", Dominant(map[string]int{}))
}

func TestRecommendStaticFallback(t *testing.T) {
	svc := newService(t, llm.Disabled{})

	_, err := svc.Recommend(context.Background(), map[string]string{
		"q1": "C", "q2": "c", "q3": "A", "niveau_stress": "4",
		"q4": "Profondeur / sensibilité",
	})
	// q4 text belongs to q10, so it is rejected
	var aerr *AnswerError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "q4", aerr.QuestionID)

	res, err := svc.Recommend(context.Background(), map[string]string{
		"q1": "C", "q2": "c", "q3": "A", "niveau_stress": "4",
		"q10": "Profondeur / sensibilité",
	})
	require.NoError(t, err)
	assert.Equal(t, SourceStatic, res.Source)
	assert.Equal(t, "C", res.Profile.Letter)
	assert.Equal(t, "Le Sage Émotionnel", res.Profile.Name)
	assert.Equal(t, 3, res.Tally["C"])
	assert.Equal(t, "Intelligence Émotionnelle", res.PrincipalProgram.Name)
	assert.Len(t, res.ComplementaryModules, 2)
	assert.NotEmpty(t, res.MotivationMessage)
}

func TestRecommendUsesModelOutput(t *testing.T) {
	fake := &fakeCompleter{out: `{
		"profil_analysis": "Profil ambitieux mais bloqué par le stress",
		"principal_program": {"name": "Intelligence Émotionnelle", "reason": "Pour retrouver ta stabilité"},
		"complementary_modules": [{"name": "Stress & conflits", "reason": "Pour désamorcer les tensions"}],
		"motivation_message": "Tu as déjà fait le premier pas."
	}`}
	svc := newService(t, fake)

	res, err := svc.Recommend(context.Background(), map[string]string{"q1": "C", "niveau_stress": "5"})
	require.NoError(t, err)
	assert.Equal(t, SourceAI, res.Source)
	assert.Equal(t, "Profil ambitieux mais bloqué par le stress", res.ProfilAnalysis)

	require.Len(t, fake.reqs, 1)
	assert.Contains(t, fake.reqs[0].System, "Kizomba Bien-Être & Connexion")
	assert.Contains(t, fake.reqs[0].User, "Niveau de stress (1 à 5) : 5")
	assert.Contains(t, fake.reqs[0].User, "Profil dominant : C")
}

func TestRecommendFallsBackOnInvalidModelOutput(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeCompleter
	}{
		{name: "provider error", fake: &fakeCompleter{err: errors.New("timeout")}},
		{name: "not json", fake: &fakeCompleter{out: "bonjour"}},
		{name: "missing modules", fake: &fakeCompleter{out: `{"profil_analysis":"x","principal_program":{"name":"n","reason":"r"},"complementary_modules":[],"motivation_message":"m"}`}},
		{name: "missing reason", fake: &fakeCompleter{out: `{"profil_analysis":"x","principal_program":{"name":"n"},"complementary_modules":[{"name":"a","reason":"b"}],"motivation_message":"m"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, tt.fake)
			res, err := svc.Recommend(context.Background(), map[string]string{"q1": "G", "q2": "G"})
			require.NoError(t, err)
			assert.Equal(t, SourceStatic, res.Source)
			assert.Equal(t, "G", res.Profile.Letter)
			assert.Equal(t, "IA & Productivité", res.PrincipalProgram.Name)
		})
	}
}

func TestRecommendRejectsInvalidAnswers(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	_, err := svc.Recommend(ctx, map[string]string{"unknown": "A"})
	var aerr *AnswerError
	assert.True(t, errors.As(err, &aerr))

	_, err = svc.Recommend(ctx, map[string]string{"q1": "Z"})
	assert.True(t, errors.As(err, &aerr))

	_, err = svc.Recommend(ctx, map[string]string{"niveau_stress": "9"})
	assert.True(t, errors.As(err, &aerr))

	_, err = svc.Recommend(ctx, map[string]string{"niveau_stress": "3"})
	assert.ErrorIs(t, err, ErrNoAnswers)
}
