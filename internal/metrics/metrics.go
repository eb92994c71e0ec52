package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EmailsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailsift_emails_processed_total",
		Help: "Emails fully processed and handed to persistence, by category.",
	}, []string{"category"})

	EmailsSpam = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailsift_emails_spam_total",
		Help: "Emails labeled spam by the content classifier.",
	})

	EmailsPhishing = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailsift_emails_phishing_total",
		Help: "Emails labeled phishing, by classifier or attachment verdict.",
	})

	MessageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailsift_message_failures_total",
		Help: "Per-message processing failures that were isolated and skipped.",
	}, []string{"category"})

	UnsafeAttachments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailsift_unsafe_attachments_total",
		Help: "Attachments flagged unsafe by the risk scanner.",
	})
)
