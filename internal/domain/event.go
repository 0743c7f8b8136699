package domain

// EventID names an event chat room. Rooms have no record of their own;
// one exists exactly while it has members.
type EventID string
