package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/NikJur/CoxOrb/internal/csvtab"
	"github.com/NikJur/CoxOrb/internal/gpx"
	"github.com/NikJur/CoxOrb/internal/logbook"
	"github.com/NikJur/CoxOrb/internal/replay"
	"github.com/NikJur/CoxOrb/internal/track"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrNotReady  = errors.New("replay requires both a track and a log upload")
	ErrNotLinked = errors.New("could not link the two data sources")
)

const cacheTTL = 24 * time.Hour

// Service owns all sessions. Redis, when present, caches computed joins
// by content identity so re-uploading identical files skips the merge.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	redis    *redis.Client
}

func NewService(redisClient *redis.Client) *Service {
	return &Service{
		sessions: map[string]*Session{},
		redis:    redisClient,
	}
}

func (s *Service) Create() *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		State:     replay.NewState(0),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Service) get(id string) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// SetTrack parses a GPX body into the session's position stream and
// rebuilds the join.
func (s *Service) SetTrack(ctx context.Context, id string, r io.Reader) error {
	doc, err := gpx.Parse(r)
	if err != nil {
		return err
	}
	samples := track.FromGPX(doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return err
	}
	sess.Track = samples
	s.rebuild(ctx, sess)
	return nil
}

// SetLog parses an instrument CSV body into the session's performance
// stream, derives missing splits, and rebuilds the join.
func (s *Service) SetLog(ctx context.Context, id string, r io.Reader) error {
	tab, err := csvtab.Read(r)
	if err != nil {
		return err
	}
	samples := logbook.FromTable(tab)
	logbook.DeriveSplit(samples)

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return err
	}
	sess.Log = samples
	s.rebuild(ctx, sess)
	return nil
}

// rebuild replaces the joined sequence when the input pair changed.
// Callers hold the write lock. The join is the dominant cost of the
// pipeline, so it is keyed by the content of both streams and skipped
// when neither changed.
func (s *Service) rebuild(ctx context.Context, sess *Session) {
	if len(sess.Track) == 0 || len(sess.Log) == 0 {
		sess.Rows = nil
		sess.State = replay.NewState(0)
		sess.Linked = false
		sess.joinKey = ""
		return
	}

	key := joinKey(sess.Track, sess.Log)
	if key == sess.joinKey {
		return
	}

	rows, cached := s.cachedJoin(ctx, key)
	if !cached {
		rows = replay.Join(sess.Track, sess.Log, replay.DefaultTolerance)
		s.storeJoin(ctx, key, rows)
	}

	sess.Rows = rows
	sess.State = replay.NewState(len(rows))
	sess.Linked = len(rows) > 0
	sess.joinKey = key
}

func joinKey(pos []track.Sample, perf []logbook.Sample) string {
	h := sha256.New()
	for _, p := range pos {
		fmt.Fprintf(h, "p|%.7f|%.7f|%d\n", p.Lat, p.Lon, p.ElapsedSec)
	}
	for _, p := range perf {
		fmt.Fprintf(h, "l|%g|%g|%g|%g|%d|%s\n", p.Distance, p.Rate, p.Speed, p.Split, p.ElapsedSec, p.ElapsedText)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Service) cachedJoin(ctx context.Context, key string) ([]replay.Row, bool) {
	if s.redis == nil {
		return nil, false
	}
	payload, err := s.redis.Get(ctx, cacheKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var rows []replay.Row
	if err := json.Unmarshal(payload, &rows); err != nil {
		log.Printf("join cache decode error: %v", err)
		return nil, false
	}
	return rows, true
}

func (s *Service) storeJoin(ctx context.Context, key string, rows []replay.Row) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey(key), payload, cacheTTL).Err(); err != nil {
		log.Printf("join cache write error: %v", err)
	}
}

func cacheKey(key string) string {
	return "coxorb:join:" + key
}

func (s *Service) Summary(id string) (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, err := s.get(id)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		ID:              sess.ID,
		CreatedAt:       sess.CreatedAt,
		TrackPoints:     len(sess.Track),
		LogSamples:      len(sess.Log),
		JoinedRows:      len(sess.Rows),
		Linked:          sess.Linked,
		TotalDistanceKm: track.TotalDistanceKm(sess.Track),
	}
	if n := len(sess.Track); n > 0 {
		sum.DurationSec = sess.Track[n-1].ElapsedSec
	}
	return sum, nil
}

// TrackSamples returns the session's position stream (static view).
func (s *Service) TrackSamples(id string) ([]track.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return sess.Track, nil
}

// LogSamples returns the session's performance stream (static view).
func (s *Service) LogSamples(id string) ([]logbook.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return sess.Log, nil
}

// Rows returns the joined sequence, or an error when replay is not
// available for this session.
func (s *Service) Rows(id string) ([]replay.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := replayReady(sess); err != nil {
		return nil, err
	}
	return sess.Rows, nil
}

func replayReady(sess *Session) error {
	if len(sess.Track) == 0 || len(sess.Log) == 0 {
		return ErrNotReady
	}
	if !sess.Linked {
		return ErrNotLinked
	}
	return nil
}

// Chart returns the trim-windowed chart series with the highlight index.
func (s *Service) Chart(id string) (replay.ChartData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, err := s.get(id)
	if err != nil {
		return replay.ChartData{}, err
	}
	if err := replayReady(sess); err != nil {
		return replay.ChartData{}, err
	}
	return replay.ChartWindow(sess.Rows, sess.State), nil
}

// UpdateState applies scrub transitions and returns the resulting state.
func (s *Service) UpdateState(id string, upd StateUpdate) (*replay.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := replayReady(sess); err != nil {
		return nil, err
	}
	if upd.TrimStart != nil {
		sess.State.SetTrimStart(*upd.TrimStart)
	}
	if upd.TrimEnd != nil {
		sess.State.SetTrimEnd(*upd.TrimEnd)
	}
	if upd.Seek != nil {
		sess.State.Seek(*upd.Seek)
	}
	return sess.State, nil
}

func (s *Service) State(id string) (*replay.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := replayReady(sess); err != nil {
		return nil, err
	}
	return sess.State, nil
}

// Frame renders the replay output at the given joined index; index -1
// means the session's current scrub position. The index is clamped to the
// trim window; the call never mutates state.
func (s *Service) Frame(id string, index int) (Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, err := s.get(id)
	if err != nil {
		return Frame{}, err
	}
	if err := replayReady(sess); err != nil {
		return Frame{}, err
	}

	if index < 0 {
		index = sess.State.Current
	}
	if index < sess.State.TrimStart {
		index = sess.State.TrimStart
	}
	if index > sess.State.TrimEnd {
		index = sess.State.TrimEnd
	}

	return buildFrame(sess, index), nil
}

func buildFrame(sess *Session, index int) Frame {
	row := sess.Rows[index]
	f := Frame{
		Index:       index,
		Lat:         row.Lat,
		Lon:         row.Lon,
		Rate:        row.Rate,
		Split:       replay.FormatSplit(row.Split),
		Distance:    row.Distance,
		ElapsedText: row.ElapsedText,
		ElapsedSec:  row.ElapsedSec,
	}
	for _, p := range track.Traveled(sess.Track, row.ElapsedSec) {
		f.Traveled = append(f.Traveled, LatLon{Lat: p.Lat, Lon: p.Lon})
	}
	return f
}
