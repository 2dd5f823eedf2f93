package logx

import "testing"

func TestNop_NeverPanics(t *testing.T) {
	l := NewNop()
	l.Debugf("x")
	l.Infof("x")
	l.Warnf("x")
	l.Errorf("x")
	l.SetDebug(true)
	if l.DebugEnabled() {
		t.Fatal("nop logger should report debug disabled regardless of SetDebug")
	}
}

func TestDefaultLogger_SetDebugToggles(t *testing.T) {
	l := New("test", false)
	if l.DebugEnabled() {
		t.Fatal("expected debug off initially")
	}
	l.SetDebug(true)
	if !l.DebugEnabled() {
		t.Fatal("expected debug on after SetDebug(true)")
	}
}
