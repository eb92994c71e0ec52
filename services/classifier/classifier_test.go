package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailsift/mailsift/config"
	"github.com/mailsift/mailsift/internal/enum"
	"github.com/mailsift/mailsift/internal/logger"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func testConfig(t *testing.T) *config.ClassifierConfig {
	dir := t.TempDir()
	return &config.ClassifierConfig{
		ModelPath:     filepath.Join(dir, "spam_model.gob"),
		TransformPath: filepath.Join(dir, "vectorizer.gob"),
	}
}

func TestLoad_TrainsBootstrapWhenArtifactsMissing(t *testing.T) {
	cfg := testConfig(t)

	service, err := Load(cfg, getLogger())
	require.NoError(t, err)
	require.NotNil(t, service)

	// both artifacts persisted
	_, err = os.Stat(cfg.ModelPath)
	assert.NoError(t, err)
	_, err = os.Stat(cfg.TransformPath)
	assert.NoError(t, err)
}

func TestLoad_ReloadsPersistedArtifacts(t *testing.T) {
	cfg := testConfig(t)

	first, err := Load(cfg, getLogger())
	require.NoError(t, err)

	second, err := Load(cfg, getLogger())
	require.NoError(t, err)

	body := "spam spam spam"
	firstLabel, err := first.Predict(body)
	require.NoError(t, err)
	secondLabel, err := second.Predict(body)
	require.NoError(t, err)

	assert.Equal(t, firstLabel, secondLabel)
}

func TestPredict_BootstrapLabels(t *testing.T) {
	service, err := Load(testConfig(t), getLogger())
	require.NoError(t, err)

	tests := []struct {
		body     string
		expected enum.Classification
	}{
		{"spam spam spam", enum.ClassificationSpam},
		{"phishing phishing", enum.ClassificationPhishing},
		{"normal normal normal", enum.ClassificationBenign},
	}

	for _, tt := range tests {
		label, err := service.Predict(tt.body)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, label, "body %q", tt.body)
	}
}

func TestPredict_EmptyBodyIsBenign(t *testing.T) {
	service, err := Load(testConfig(t), getLogger())
	require.NoError(t, err)

	label, err := service.Predict("")
	require.NoError(t, err)
	assert.Equal(t, enum.ClassificationBenign, label)

	// punctuation only, no tokens survive the transform
	label, err = service.Predict("!!! ... ???")
	require.NoError(t, err)
	assert.Equal(t, enum.ClassificationBenign, label)
}

func TestPredict_IsDeterministic(t *testing.T) {
	service, err := Load(testConfig(t), getLogger())
	require.NoError(t, err)

	first, err := service.Predict("limited time offer click now")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		label, err := service.Predict("limited time offer click now")
		require.NoError(t, err)
		assert.Equal(t, first, label)
	}
}

func TestTokenize_DropsStopWordsAndShortTokens(t *testing.T) {
	transform := NewTransform()

	tokens := transform.Tokenize("The Quick brown fox is on a hill!")

	assert.Equal(t, []string{"quick", "brown", "fox", "hill"}, tokens)
}

func TestTransform_RoundTripsThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectorizer.gob")

	original := NewTransform()
	require.NoError(t, original.WriteToFile(path))

	loaded, err := LoadTransformFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, original.MinTokenLength, loaded.MinTokenLength)
	assert.Equal(t, original.Lowercase, loaded.Lowercase)
	assert.Equal(t, original.StopWords, loaded.StopWords)
}
