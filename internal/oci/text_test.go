package oci

import "testing"

func TestCString(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", nil, ""},
		{"nul terminated", []byte("ORA-01017: invalid username/password\x00garbage"), "ORA-01017: invalid username/password"},
		{"trailing newline", []byte("ORA-12154: TNS:could not resolve\n\x00"), "ORA-12154: TNS:could not resolve"},
		{"no terminator", []byte("abc"), "abc"},
		{"leading nul", []byte{0, 'x'}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cString(tt.in); got != tt.want {
				t.Errorf("cString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Success, "OCI_SUCCESS"},
		{SuccessWithInfo, "OCI_SUCCESS_WITH_INFO"},
		{NeedData, "OCI_NEED_DATA"},
		{NoData, "OCI_NO_DATA"},
		{Error, "OCI_ERROR"},
		{InvalidHandle, "OCI_INVALID_HANDLE"},
		{StillExecuting, "OCI_STILL_EXECUTING"},
		{Status(42), "OCI_STATUS(42)"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int32(tt.status), got, tt.want)
		}
	}
}

func TestHandleTypeString(t *testing.T) {
	if got := HTypeSvcCtx.String(); got != "OCI_HTYPE_SVCCTX" {
		t.Errorf("HTypeSvcCtx.String() = %q", got)
	}
	if got := HandleType(77).String(); got != "OCI_HTYPE(77)" {
		t.Errorf("HandleType(77).String() = %q", got)
	}
}
