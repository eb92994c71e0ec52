package enum

type Classification string

const (
	ClassificationBenign   Classification = "benign"
	ClassificationSpam     Classification = "spam"
	ClassificationPhishing Classification = "phishing"
)

func (c Classification) String() string {
	return string(c)
}

func DecodeClassification(s string) Classification {
	switch s {
	case "spam":
		return ClassificationSpam
	case "phishing":
		return ClassificationPhishing
	default:
		return ClassificationBenign
	}
}
