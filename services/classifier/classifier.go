package classifier

import (
	"os"

	"github.com/jbrukh/bayesian"
	"github.com/pkg/errors"

	"github.com/mailsift/mailsift/config"
	mailsift_errors "github.com/mailsift/mailsift/errors"
	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/enum"
	"github.com/mailsift/mailsift/internal/logger"
)

const (
	ClassBenign   = bayesian.Class("benign")
	ClassSpam     = bayesian.Class("spam")
	ClassPhishing = bayesian.Class("phishing")
)

// orderedClasses fixes the index mapping of the model's score vector.
var orderedClasses = []enum.Classification{
	enum.ClassificationBenign,
	enum.ClassificationSpam,
	enum.ClassificationPhishing,
}

// bootstrapCorpus is the minimal three-example training set used when no
// trained artifacts exist yet. Accuracy is poor until retrained with real
// data, but the pipeline is never blocked by a missing model.
var bootstrapCorpus = []struct {
	text  string
	class bayesian.Class
}{
	{"normal text", ClassBenign},
	{"spam text", ClassSpam},
	{"phishing text", ClassPhishing},
}

// Service is the content classifier: a bag-of-words transform feeding a
// multinomial naive Bayes model. Loaded once at start, immutable afterwards.
type Service struct {
	model     *bayesian.Classifier
	transform *Transform
}

// Load reads the persisted artifact pair, or trains and persists the
// bootstrap model when either artifact is absent.
func Load(cfg *config.ClassifierConfig, log logger.Logger) (*Service, error) {
	model, transform, err := loadArtifacts(cfg)
	if err == nil {
		log.Infof("loaded classifier artifacts from %s and %s", cfg.ModelPath, cfg.TransformPath)
		return &Service{model: model, transform: transform}, nil
	}
	if !os.IsNotExist(errors.Cause(err)) {
		return nil, err
	}

	log.Warnf("classifier artifacts missing, training bootstrap model: %v", err)
	return trainBootstrap(cfg)
}

func loadArtifacts(cfg *config.ClassifierConfig) (*bayesian.Classifier, *Transform, error) {
	transform, err := LoadTransformFromFile(cfg.TransformPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load transform")
	}

	model, err := bayesian.NewClassifierFromFile(cfg.ModelPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load model")
	}

	return model, transform, nil
}

func trainBootstrap(cfg *config.ClassifierConfig) (*Service, error) {
	transform := NewTransform()
	model := bayesian.NewClassifier(ClassBenign, ClassSpam, ClassPhishing)

	for _, example := range bootstrapCorpus {
		model.Learn(transform.Tokenize(example.text), example.class)
	}

	if err := transform.WriteToFile(cfg.TransformPath); err != nil {
		return nil, errors.Wrap(err, "persist transform")
	}
	if err := model.WriteToFile(cfg.ModelPath); err != nil {
		return nil, errors.Wrap(err, "persist model")
	}

	return &Service{model: model, transform: transform}, nil
}

var _ interfaces.ContentClassifier = (*Service)(nil)

// Predict labels body text as benign, spam, or phishing. Pure function of the
// input; the model is never mutated.
func (s *Service) Predict(body string) (enum.Classification, error) {
	if s.model == nil || s.transform == nil {
		return enum.ClassificationBenign, errors.Wrap(mailsift_errors.ErrClassification, "classifier not loaded")
	}

	tokens := s.transform.Tokenize(body)
	if len(tokens) == 0 {
		return enum.ClassificationBenign, nil
	}

	_, inx, _ := s.model.LogScores(tokens)
	if inx < 0 || inx >= len(orderedClasses) {
		return enum.ClassificationBenign, errors.Wrapf(mailsift_errors.ErrClassification, "unexpected class index %d", inx)
	}

	return orderedClasses[inx], nil
}
