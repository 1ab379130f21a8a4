package types

import "fmt"

// EventID identifies a security event record
type EventID int

// Int returns the int representation
func (id EventID) Int() int {
	return int(id)
}

// String returns the string representation
func (id EventID) String() string {
	return fmt.Sprintf("%d", id)
}

// MalwareID identifies a malware record
type MalwareID int

// Int returns the int representation
func (id MalwareID) Int() int {
	return int(id)
}

// String returns the string representation
func (id MalwareID) String() string {
	return fmt.Sprintf("%d", id)
}

// PhishID identifies a phishing record
type PhishID int

// Int returns the int representation
func (id PhishID) Int() int {
	return int(id)
}

// String returns the string representation
func (id PhishID) String() string {
	return fmt.Sprintf("%d", id)
}

// IOCID identifies an indicator-of-compromise record
type IOCID int

// Int returns the int representation
func (id IOCID) Int() int {
	return int(id)
}

// String returns the string representation
func (id IOCID) String() string {
	return fmt.Sprintf("%d", id)
}

// MitigationID identifies a mitigation record
type MitigationID int

// Int returns the int representation
func (id MitigationID) Int() int {
	return int(id)
}

// String returns the string representation
func (id MitigationID) String() string {
	return fmt.Sprintf("%d", id)
}

// APTID identifies a threat-actor profile
type APTID int

// Int returns the int representation
func (id APTID) Int() int {
	return int(id)
}

// String returns the string representation
func (id APTID) String() string {
	return fmt.Sprintf("%d", id)
}

// FamilyID identifies a malware family reference row
type FamilyID int

// Int returns the int representation
func (id FamilyID) Int() int {
	return int(id)
}

// CategoryID identifies a malware category reference row
type CategoryID int

// Int returns the int representation
func (id CategoryID) Int() int {
	return int(id)
}

// VulnerabilityID identifies a vulnerability record
type VulnerabilityID int

// Int returns the int representation
func (id VulnerabilityID) Int() int {
	return int(id)
}

// String returns the string representation
func (id VulnerabilityID) String() string {
	return fmt.Sprintf("%d", id)
}

// ClusterID identifies an activity cluster record
type ClusterID int

// Int returns the int representation
func (id ClusterID) Int() int {
	return int(id)
}
