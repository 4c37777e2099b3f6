package workspace

import "fmt"

// CheckCanCreate verifies the list has room for another workspace.
func CheckCanCreate(count, maxWorkspaces int) error {
	if maxWorkspaces > HardLimit {
		maxWorkspaces = HardLimit
	}
	if count >= maxWorkspaces {
		return fmt.Errorf("%w (%d/%d)", ErrLimitReached, count, maxWorkspaces)
	}
	return nil
}

// CheckIndex verifies index addresses an existing workspace.
func CheckIndex(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("workspace %d of %d: %w", index+1, count, ErrInvalidIndex)
	}
	return nil
}
