package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var messagesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chick_messages_handled_total",
	Help: "Messages handled by route",
}, []string{"route"})

var threadsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chick_threads_created_total",
	Help: "Threads created and named by the bot",
}, []string{"channel"})

var reactionsAdded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chick_reactions_added_total",
	Help: "Reactions added to messages",
}, []string{"result"})

var interestNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chick_interest_notifications_total",
	Help: "Activity in interest threads by outcome",
}, []string{"result"})

var reviewsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chick_reviews_total",
	Help: "Review findings by kind",
}, []string{"kind"})

var reviewTagErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chick_review_tag_errors_total",
	Help: "Review threads whose tags could not be computed or applied",
})

var commandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chick_commands_total",
	Help: "Slash commands handled",
}, []string{"command"})

var duplicateEvents = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chick_duplicate_events_total",
	Help: "Gateway events skipped because they were already handled",
})
