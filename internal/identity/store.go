package identity

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// User is one local account. Email is unique (case-sensitive as stored)
// and doubles as the scoping key for prospect ownership.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// Store holds user accounts, persisted as a JSON snapshot.
type Store struct {
	mu    sync.Mutex
	path  string // empty = memory-only
	users map[string]User // keyed by email
}

// Open loads the identity store from the snapshot at path, creating an empty
// store if the file does not exist. An empty path opens a memory-only store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, users: make(map[string]User)}
	if path == "" {
		return s, nil
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("open identity store: %w", err)
	}
	return s, nil
}

// CreateAccount registers a new user. Email and password are trimmed first;
// blank values are rejected and a duplicate trimmed email fails with
// ErrDuplicateEmail. The stored password is the SHA-256 digest, never the
// plaintext.
func (s *Store) CreateAccount(email, password string) (User, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return User{}, ErrEmptyField
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; exists {
		return User{}, ErrDuplicateEmail
	}

	u := User{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Email:        email,
		PasswordHash: HashPassword(password),
	}
	s.users[email] = u
	if err := s.persistLocked(); err != nil {
		delete(s.users, email)
		return User{}, err
	}
	return u, nil
}

// Authenticate checks the trimmed email and the digest of the trimmed
// password against the stored user. Both a missing account and a wrong
// password report the same ErrInvalidCredentials.
func (s *Store) Authenticate(email, password string) (User, error) {
	email = strings.TrimSpace(email)
	digest := HashPassword(strings.TrimSpace(password))

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(u.PasswordHash), []byte(digest)) != 1 {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// ResetPassword overwrites the stored digest for the account. The new
// password and its confirmation must match and be non-blank after trimming.
func (s *Store) ResetPassword(email, newPassword, confirmPassword string) error {
	email = strings.TrimSpace(email)
	newPassword = strings.TrimSpace(newPassword)
	confirmPassword = strings.TrimSpace(confirmPassword)

	if email == "" || newPassword == "" {
		return ErrEmptyField
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return ErrAccountNotFound
	}
	prev := u.PasswordHash
	u.PasswordHash = HashPassword(newPassword)
	s.users[email] = u
	if err := s.persistLocked(); err != nil {
		u.PasswordHash = prev
		s.users[email] = u
		return err
	}
	return nil
}

// usersSnapshot is the on-disk form of the store.
type usersSnapshot struct {
	Version int    `json:"version"`
	Users   []User `json:"users"`
}

const usersSnapshotVersion = 1

// persistLocked writes the snapshot with a temp-file-and-rename. Callers
// must hold s.mu.
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}

	snap := usersSnapshot{Version: usersSnapshotVersion, Users: make([]User, 0, len(s.users))}
	for _, u := range s.users {
		snap.Users = append(snap.Users, u)
	}
	sort.Slice(snap.Users, func(i, j int) bool { return snap.Users[i].Email < snap.Users[j].Email })

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".users-*.tmp")
	if err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write users: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write users: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read users: %w", err)
	}

	var snap usersSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode users: %w", err)
	}
	for _, u := range snap.Users {
		s.users[u.Email] = u
	}
	return nil
}
