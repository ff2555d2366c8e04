package history

import (
	"encoding/json"
	"fmt"
)

const playerSlotPrefix = "player_"

func playerSlot(isWhite bool) string {
	if isWhite {
		return playerSlotPrefix + "w"
	}
	return playerSlotPrefix + "b"
}

func (s *Store) readSettings() (map[string]string, error) {
	raw, ok, err := s.backend.Get(SettingsKey)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	settings := make(map[string]string)
	if !ok || raw == "" {
		return settings, nil
	}
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

func (s *Store) writeSettings(settings map[string]string) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.backend.Set(SettingsKey, string(data)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// SetMostRecentName records the last name used for one side
func (s *Store) SetMostRecentName(name string, isWhite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.readSettings()
	if err != nil {
		return err
	}
	settings[playerSlot(isWhite)] = name
	return s.writeSettings(settings)
}

// MostRecentName returns the stored name for one side, "" if unset
func (s *Store) MostRecentName(isWhite bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.readSettings()
	if err != nil {
		return "", err
	}
	return settings[playerSlot(isWhite)], nil
}

// RmMostRecentName forgets one side's name. Absent slots are left alone.
func (s *Store) RmMostRecentName(isWhite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.readSettings()
	if err != nil {
		return err
	}
	slot := playerSlot(isWhite)
	if _, ok := settings[slot]; !ok {
		return nil
	}
	delete(settings, slot)
	return s.writeSettings(settings)
}

// HaveSettingsSaved reports whether any preference is stored
func (s *Store) HaveSettingsSaved() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.readSettings()
	if err != nil {
		return false, err
	}
	return len(settings) > 0, nil
}
