package testutil

import (
	"context"
	"sync"

	"photo-contest-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryContests is an in-memory contest repository.
type MemoryContests struct {
	mu   sync.Mutex
	docs []bson.M
	Err  error
}

func NewMemoryContests(docs ...bson.M) *MemoryContests {
	m := &MemoryContests{}
	for _, doc := range docs {
		m.Insert(context.Background(), doc)
	}
	return m
}

func (m *MemoryContests) Insert(ctx context.Context, contest bson.M) (*models.InsertResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := copyDoc(contest)
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	m.docs = append(m.docs, doc)
	return &models.InsertResult{Acknowledged: true, InsertedID: doc["_id"]}, nil
}

func (m *MemoryContests) List(ctx context.Context, skip, limit int64) ([]bson.M, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]bson.M, 0)
	for i, doc := range m.docs {
		if int64(i) < skip {
			continue
		}
		if limit > 0 && int64(len(result)) >= limit {
			break
		}
		result = append(result, copyDoc(doc))
	}
	return result, nil
}

func (m *MemoryContests) Count(ctx context.Context) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.docs)), nil
}

func (m *MemoryContests) FindByID(ctx context.Context, id primitive.ObjectID) (bson.M, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.docs {
		if doc["_id"] == id {
			return copyDoc(doc), nil
		}
	}
	return nil, nil
}

func (m *MemoryContests) Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, doc := range m.docs {
		if doc["_id"] == id {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return &models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return &models.DeleteResult{Acknowledged: true}, nil
}

// MemoryEntries is an in-memory entry repository.
type MemoryEntries struct {
	mu      sync.Mutex
	entries []models.Entry
	Err     error
}

func NewMemoryEntries(entries ...models.Entry) *MemoryEntries {
	m := &MemoryEntries{}
	for i := range entries {
		m.Insert(context.Background(), &entries[i])
	}
	return m
}

func (m *MemoryEntries) Insert(ctx context.Context, entry *models.Entry) (*models.InsertResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Vote == nil {
		entry.Vote = []string{}
	}
	stored := *entry
	stored.Vote = append([]string{}, entry.Vote...)
	m.entries = append(m.entries, stored)
	return &models.InsertResult{Acknowledged: true, InsertedID: entry.ID}, nil
}

func (m *MemoryEntries) ListByContest(ctx context.Context, contestID string) ([]models.Entry, error) {
	return m.filter(func(e models.Entry) bool { return e.ContestID == contestID })
}

func (m *MemoryEntries) All(ctx context.Context) ([]models.Entry, error) {
	return m.filter(func(models.Entry) bool { return true })
}

func (m *MemoryEntries) filter(keep func(models.Entry) bool) ([]models.Entry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]models.Entry, 0)
	for _, e := range m.entries {
		if keep(e) {
			e.Vote = append([]string{}, e.Vote...)
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MemoryEntries) FindForUser(ctx context.Context, contestID, email string) (*models.Entry, error) {
	entries, err := m.filter(func(e models.Entry) bool {
		return e.ContestID == contestID && e.UserEmail == email
	})
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

func (m *MemoryEntries) PushVote(ctx context.Context, id primitive.ObjectID, email string) (*models.UpdateResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries[i].Vote = append(m.entries[i].Vote, email)
			return &models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	m.entries = append(m.entries, models.Entry{ID: id, Vote: []string{email}})
	return &models.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil
}

// MemoryUsers is an in-memory user repository keyed by email.
type MemoryUsers struct {
	mu   sync.Mutex
	docs []bson.M
	Err  error
}

func NewMemoryUsers(docs ...bson.M) *MemoryUsers {
	m := &MemoryUsers{}
	for _, doc := range docs {
		m.Insert(context.Background(), doc)
	}
	return m
}

func (m *MemoryUsers) Insert(ctx context.Context, user bson.M) (*models.InsertResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := copyDoc(user)
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	m.docs = append(m.docs, doc)
	return &models.InsertResult{Acknowledged: true, InsertedID: doc["_id"]}, nil
}

func (m *MemoryUsers) Replace(ctx context.Context, email string, user bson.M) (*models.UpdateResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	replacement := copyDoc(user)
	delete(replacement, "_id")
	if i := m.indexOf(email); i >= 0 {
		replacement["_id"] = m.docs[i]["_id"]
		m.docs[i] = replacement
		return &models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}
	id := primitive.NewObjectID()
	replacement["_id"] = id
	if _, ok := replacement["email"]; !ok {
		replacement["email"] = email
	}
	m.docs = append(m.docs, replacement)
	return &models.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil
}

func (m *MemoryUsers) PromoteAdmin(ctx context.Context, email string) (*models.UpdateResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(email); i >= 0 {
		modified := int64(0)
		if m.docs[i]["role"] != models.RoleAdmin {
			m.docs[i]["role"] = models.RoleAdmin
			modified = 1
		}
		return &models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
	}
	id := primitive.NewObjectID()
	m.docs = append(m.docs, bson.M{"_id": id, "email": email, "role": models.RoleAdmin})
	return &models.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil
}

func (m *MemoryUsers) All(ctx context.Context) ([]bson.M, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]bson.M, 0, len(m.docs))
	for _, doc := range m.docs {
		result = append(result, copyDoc(doc))
	}
	return result, nil
}

func (m *MemoryUsers) FindByEmail(ctx context.Context, email string) (bson.M, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(email); i >= 0 {
		return copyDoc(m.docs[i]), nil
	}
	return nil, nil
}

func (m *MemoryUsers) indexOf(email string) int {
	for i, doc := range m.docs {
		if doc["email"] == email {
			return i
		}
	}
	return -1
}

func copyDoc(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
