package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"filippo.io/age"
)

// ageHeader is the prefix of Age-encrypted files
const ageHeader = "age-encryption.org"

// scryptWorkFactor keeps sealing fast enough for an interactive CLI
const scryptWorkFactor = 15

// ErrLocked is returned when a sealed file is read without a passphrase
var ErrLocked = errors.New("file is sealed but no passphrase was provided")

// Storage reads ledgers and writes reports, sealing them with a passphrase
// when asked. Sealed files are detected by their header, so plain and sealed
// ledgers can be mixed in the same directory.
type Storage struct {
	baseDir   string
	identity  *age.ScryptIdentity
	recipient *age.ScryptRecipient
	mu        sync.RWMutex
}

// New creates a Storage rooted at baseDir. Relative paths passed to the
// file methods are resolved against it.
func New(baseDir string) *Storage {
	return &Storage{baseDir: baseDir}
}

// BaseDir returns the base directory
func (s *Storage) BaseDir() string {
	return s.baseDir
}

// Unlock derives the age identity and recipient from a passphrase
func (s *Storage) Unlock(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("empty passphrase")
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("failed to create recipient: %w", err)
	}
	recipient.SetWorkFactor(scryptWorkFactor)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	s.recipient = recipient
	return nil
}

// Lock clears the passphrase-derived keys from memory
func (s *Storage) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.recipient = nil
}

// IsUnlocked returns true once a passphrase has been provided
func (s *Storage) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// Resolve maps a relative path onto the base directory
func (s *Storage) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || s.baseDir == "" {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

// IsSealedFile reports whether the file on disk is age-encrypted
func (s *Storage) IsSealedFile(path string) (bool, error) {
	f, err := os.Open(s.Resolve(path))
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, len(ageHeader)+1)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return IsSealed(head[:n]), nil
}

// ReadFile reads a file, decrypting it when it is sealed
func (s *Storage) ReadFile(path string) ([]byte, error) {
	rc, err := s.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// sealedReader closes the underlying file once the age stream is done with
type sealedReader struct {
	io.Reader
	file *os.File
}

func (r *sealedReader) Close() error {
	return r.file.Close()
}

// OpenFile returns a reader for a potentially sealed file. Sealed files are
// decrypted as they are read.
func (s *Storage) OpenFile(path string) (io.ReadCloser, error) {
	s.mu.RLock()
	identity := s.identity
	s.mu.RUnlock()

	f, err := os.Open(s.Resolve(path))
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	head, err := br.Peek(len(ageHeader) + 1)
	if err != nil && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, err
	}
	if !IsSealed(head) {
		return &sealedReader{Reader: br, file: f}, nil
	}

	if identity == nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	plain, err := age.Decrypt(br, identity)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: incorrect passphrase or corrupt file: %w", path, err)
	}
	return &sealedReader{Reader: plain, file: f}, nil
}

// WriteFile writes data atomically through a temp file, encrypting it on
// the way when seal is true
func (s *Storage) WriteFile(path string, data []byte, perm os.FileMode, seal bool) error {
	s.mu.RLock()
	recipient := s.recipient
	s.mu.RUnlock()

	if seal && recipient == nil {
		return fmt.Errorf("%s: %w", path, ErrLocked)
	}

	target := s.Resolve(path)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	tmpPath := target + ".tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if err := writePayload(tmp, data, recipient, seal); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, target)
}

func writePayload(w io.Writer, data []byte, recipient *age.ScryptRecipient, seal bool) error {
	if !seal {
		_, err := w.Write(data)
		return err
	}

	enc, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}
	return enc.Close()
}

// IsSealed checks if data starts with the Age encryption header
func IsSealed(data []byte) bool {
	return len(data) > len(ageHeader) && string(data[:len(ageHeader)]) == ageHeader
}
