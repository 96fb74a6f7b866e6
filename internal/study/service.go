package study

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/thywilljoshua/docu-learn/internal/ai"
	"github.com/thywilljoshua/docu-learn/internal/extract"
	"github.com/thywilljoshua/docu-learn/internal/quiz"
)

// DefaultGenerationTimeout bounds a single model call.
const DefaultGenerationTimeout = 120 * time.Second

// Extractor turns an uploaded document into text.
type Extractor interface {
	Extract(ctx context.Context, doc extract.Document) (string, error)
}

// Service contains the study use cases: upload a document, generate notes,
// flashcards and a quiz from it, grade the quiz and explain wrong answers.
type Service struct {
	sessions  SessionRepository
	extractor Extractor
	generator ai.Generator
	timeout   time.Duration
	now       func() time.Time
	newID     func() string
	flights   singleflight.Group
	events    *hub
}

type Option func(*Service)

// WithGenerationTimeout overrides DefaultGenerationTimeout.
func WithGenerationTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(sessions SessionRepository, extractor Extractor, generator ai.Generator, opts ...Option) *Service {
	s := &Service{
		sessions:  sessions,
		extractor: extractor,
		generator: generator,
		timeout:   DefaultGenerationTimeout,
		now:       time.Now,
		newID:     uuid.NewString,
		events:    newHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession extracts the document's text and starts a session with every
// activity not generated yet.
func (s *Service) CreateSession(ctx context.Context, doc extract.Document) (Session, error) {
	text, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	session := Session{
		ID:           s.newID(),
		DocumentName: doc.Name,
		DocumentText: text,
		CreatedAt:    now,
		Activities:   make(map[Activity]State, len(Activities)),
	}
	for _, a := range Activities {
		session.Activities[a] = State{Status: StatusNotGenerated, UpdatedAt: now}
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return Session{}, errors.Wrap(err, "store session")
	}
	log.Printf("study: session %s created for %q (%d chars)", session.ID, doc.Name, len(text))
	return session, nil
}

func (s *Service) Session(ctx context.Context, id string) (Session, error) {
	return s.sessions.Get(ctx, id)
}

// DeleteSession drops the session and everything generated for it.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	for _, a := range Activities {
		s.flights.Forget(flightKey(id, a))
	}
	s.events.closeSession(id)
	return nil
}

// Generate returns the activity's data, generating it when it is missing,
// failed, or regenerate is set. Concurrent calls for the same activity share
// one model call. The model call is not tied to ctx's cancellation: a client
// that goes away does not abort it, and only the generation timeout bounds it.
//
// On failure the failed state is stored and the underlying
// *extract.Error, *ai.GenerationError or *quiz.ParseError is returned.
func (s *Service) Generate(ctx context.Context, id string, activity Activity, regenerate bool) (State, error) {
	if _, err := ParseActivity(string(activity)); err != nil {
		return State{}, err
	}
	if !regenerate {
		session, err := s.sessions.Get(ctx, id)
		if err != nil {
			return State{}, err
		}
		if st := session.State(activity); st.Status == StatusReady {
			return st, nil
		}
	}

	v, err, shared := s.flights.Do(flightKey(id, activity), func() (any, error) {
		return s.generate(context.WithoutCancel(ctx), id, activity, regenerate)
	})
	if shared {
		log.Printf("study: joined in-flight %s generation for session %s", activity, id)
	}
	st, _ := v.(State)
	return st, err
}

func flightKey(id string, activity Activity) string {
	return id + "/" + string(activity)
}

func (s *Service) generate(ctx context.Context, id string, activity Activity, regenerate bool) (State, error) {
	var started State
	session, err := s.sessions.Update(ctx, id, func(sess *Session) error {
		next, err := Transition(sess.State(activity), Request{Regenerate: regenerate})
		if err != nil {
			return err
		}
		if next.Status == StatusLoading {
			next.UpdatedAt = s.now()
		}
		started = next
		sess.setState(activity, next)
		return nil
	})
	if err != nil {
		return State{}, err
	}
	if started.Status == StatusReady {
		return started, nil
	}
	s.publish(id, activity, started)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	begin := s.now()
	result, genErr := s.run(genCtx, activity, session.DocumentText)

	var action Action = Succeed{Attempt: started.Attempt, Result: result}
	if genErr != nil {
		log.Printf("study: %s generation for session %s failed after %s: %v", activity, id, s.now().Sub(begin), genErr)
		action = Fail{Attempt: started.Attempt, Err: genErr}
	}

	var final State
	_, err = s.sessions.Update(ctx, id, func(sess *Session) error {
		next, err := Transition(sess.State(activity), action)
		if err != nil {
			return err
		}
		next.UpdatedAt = s.now()
		final = next
		sess.setState(activity, next)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStaleResult) || errors.Is(err, ErrSessionNotFound) {
			log.Printf("study: discarding %s result for session %s: %v", activity, id, err)
		}
		return State{}, err
	}
	s.publish(id, activity, final)
	return final, genErr
}

func (s *Service) run(ctx context.Context, activity Activity, text string) (Result, error) {
	switch activity {
	case ActivityNotes:
		notes, err := s.generator.GenerateNotes(ctx, text)
		if err != nil {
			return Result{}, err
		}
		return Result{Notes: &notes}, nil
	case ActivityFlashcards:
		cards, err := s.generator.CreateFlashcards(ctx, text)
		if err != nil {
			return Result{}, err
		}
		return Result{Flashcards: cards}, nil
	case ActivityQuiz:
		raw, err := s.generator.GenerateQuiz(ctx, text)
		if err != nil {
			return Result{}, err
		}
		q, err := quiz.Parse(raw)
		if err != nil {
			return Result{}, err
		}
		return Result{Quiz: &q}, nil
	default:
		return Result{}, errors.Wrapf(ErrUnknownActivity, "%q", activity)
	}
}

// ResetActivity discards the activity's data. A generation still running for
// it finishes in the background and its result is dropped.
func (s *Service) ResetActivity(ctx context.Context, id string, activity Activity) (State, error) {
	if _, err := ParseActivity(string(activity)); err != nil {
		return State{}, err
	}
	var reset State
	_, err := s.sessions.Update(ctx, id, func(sess *Session) error {
		next, err := Transition(sess.State(activity), Reset{})
		if err != nil {
			return err
		}
		next.UpdatedAt = s.now()
		reset = next
		sess.setState(activity, next)
		return nil
	})
	if err != nil {
		return State{}, err
	}
	// The abandoned call keeps running; later requests must not join it.
	s.flights.Forget(flightKey(id, activity))
	s.publish(id, activity, reset)
	return reset, nil
}

// Grade scores answers keyed by question index against the session's quiz.
func (s *Service) Grade(ctx context.Context, id string, answers map[int]string) (quiz.Score, error) {
	q, err := s.readyQuiz(ctx, id)
	if err != nil {
		return quiz.Score{}, err
	}
	for i, answer := range answers {
		question, ok := q.Question(i)
		if !ok {
			return quiz.Score{}, errors.Wrapf(ErrQuestionNotFound, "index %d", i)
		}
		if !question.HasOption(answer) {
			return quiz.Score{}, errors.Wrapf(ErrInvalidOption, "question %d", i)
		}
	}
	return quiz.Grade(q, answers), nil
}

// Explain asks the model why userAnswer is wrong for the question at index.
func (s *Service) Explain(ctx context.Context, id string, index int, userAnswer string) (string, error) {
	q, err := s.readyQuiz(ctx, id)
	if err != nil {
		return "", err
	}
	question, ok := q.Question(index)
	if !ok {
		return "", errors.Wrapf(ErrQuestionNotFound, "index %d", index)
	}
	if !question.HasOption(userAnswer) {
		return "", errors.Wrapf(ErrInvalidOption, "question %d", index)
	}
	if userAnswer == question.Answer {
		return "", ErrAnswerCorrect
	}

	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	return s.generator.ExplainAnswer(genCtx, ai.ExplainRequest{
		Question:      question.Question,
		Options:       question.Options,
		UserAnswer:    userAnswer,
		CorrectAnswer: question.Answer,
	})
}

func (s *Service) readyQuiz(ctx context.Context, id string) (quiz.Quiz, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return quiz.Quiz{}, err
	}
	st := session.State(ActivityQuiz)
	if st.Status != StatusReady || st.Result == nil || st.Result.Quiz == nil {
		return quiz.Quiz{}, ErrQuizNotReady
	}
	return *st.Result.Quiz, nil
}

// Subscribe returns a channel that receives the current state of every
// activity followed by each later change made by this process. The caller
// must invoke the returned cancel function to avoid leaks.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan Event, func(), error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	initial := make([]Event, 0, len(Activities))
	for _, a := range Activities {
		initial = append(initial, Event{SessionID: id, Activity: a, State: session.State(a)})
	}
	ch, cancel := s.events.subscribe(id, initial)
	// A delete between the read above and subscribe would never close ch.
	if _, err := s.sessions.Get(ctx, id); err != nil {
		cancel()
		return nil, nil, err
	}
	return ch, cancel, nil
}

func (s *Service) publish(id string, activity Activity, st State) {
	s.events.publish(Event{SessionID: id, Activity: activity, State: st})
}
