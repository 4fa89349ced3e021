package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestService_Validation(t *testing.T) {
	svc := NewService(NewMatcher(scenarioStore(t)), Options{MinSymptoms: 2, FoldCase: true}, nil)

	tests := []struct {
		name     string
		symptoms []string
		msg      string
	}{
		{"nil", nil, "Symptoms array is required"},
		{"only blanks", []string{" ", ""}, "Symptoms array is required"},
		{"below minimum", []string{"itching"}, "At least 2 symptoms are required"},
		{"duplicates count once", []string{"itching", "ITCHING "}, "At least 2 symptoms are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Diagnose(tt.symptoms)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.msg, verr.Msg)
		})
	}
}

func TestService_NormalizesInput(t *testing.T) {
	svc := NewService(NewMatcher(scenarioStore(t)), Options{FoldCase: true}, nil)

	assert.Equal(t, []string{"itching", "skin_rash"}, svc.Normalize([]string{" Itching", "SKIN_RASH", "itching", "\t"}))

	res, err := svc.Diagnose([]string{" ITCHING ", "Skin_Rash"})
	require.NoError(t, err)
	assert.Equal(t, "Fungal infection", res.Disease)
}

func TestService_CaseSensitiveWhenFoldingDisabled(t *testing.T) {
	svc := NewService(NewMatcher(scenarioStore(t)), Options{}, nil)

	match, err := svc.Match([]string{"COUGH"})
	require.NoError(t, err)
	assert.True(t, match.Empty())
	assert.Equal(t, "Fungal infection", match.Label)
}

func TestService_LogsEmptyMatch(t *testing.T) {
	obs, logs := observer.New(zapcore.InfoLevel)
	svc := NewService(NewMatcher(scenarioStore(t)), Options{FoldCase: true}, zap.New(obs))

	_, err := svc.Diagnose([]string{"sneezing"})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("no reported symptom matched any condition").Len())

	_, err = svc.Diagnose([]string{"cough"})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Len())
}

func TestService_PropagatesNoReferenceData(t *testing.T) {
	svc := NewService(NewMatcher(loadStore(t, nil)), Options{}, nil)
	_, err := svc.Diagnose([]string{"cough"})
	assert.ErrorIs(t, err, ErrNoReferenceData)
}

func TestService_EnrichMatchesDiagnose(t *testing.T) {
	svc := NewService(NewMatcher(scenarioStore(t)), Options{FoldCase: true}, nil)

	match, err := svc.Match([]string{"itching", "skin_rash"})
	require.NoError(t, err)
	want, err := svc.Diagnose([]string{"itching", "skin_rash"})
	require.NoError(t, err)
	assert.Equal(t, want, svc.Enrich(match))
	assert.Equal(t, 2, match.Score)
}
