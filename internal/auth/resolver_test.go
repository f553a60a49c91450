package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sudheer0071/auth-service-new/internal/model"
)

type fakeUsers struct {
	byID map[string]*model.User
	err  error
}

func (f *fakeUsers) UserByID(_ context.Context, id string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func (f *fakeUsers) UserByEmail(_ context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeAffiliations struct {
	hospitalsByAdmin map[string]*model.Hospital
	doctorsByUser    map[string]*model.Doctor
	hospitalsByID    map[string]*model.Hospital
	err              error
}

func (f *fakeAffiliations) HospitalByAdmin(_ context.Context, userID string) (*model.Hospital, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hospitalsByAdmin[userID], nil
}

func (f *fakeAffiliations) DoctorByUser(_ context.Context, userID string) (*model.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doctorsByUser[userID], nil
}

func (f *fakeAffiliations) HospitalByID(_ context.Context, id string) (*model.Hospital, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hospitalsByID[id], nil
}

func emptyAffiliations() *fakeAffiliations {
	return &fakeAffiliations{
		hospitalsByAdmin: map[string]*model.Hospital{},
		doctorsByUser:    map[string]*model.Doctor{},
		hospitalsByID:    map[string]*model.Hospital{},
	}
}

func bearer(token string) string { return "Bearer " + token }

func TestResolveAdminIdentity(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{
		"u-admin": {ID: "u-admin", Email: "root@platform.test", Username: "root", UserType: model.RoleAdmin},
	}}
	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, emptyAffiliations(), zerolog.Nop())

	token, err := svc.IssueAccessToken("u-admin")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	id, err := r.Resolve(context.Background(), bearer(token))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.UserID != "u-admin" || id.Role != model.RoleAdmin {
		t.Errorf("identity = %+v", id)
	}
	if id.Hospital != nil || id.Doctor != nil {
		t.Errorf("admin identity should carry no affiliations, got %+v", id)
	}
}

func TestResolveHospitalAdminIdentity(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{
		"u-hosp": {ID: "u-hosp", Email: "admin@clinic.test", Username: "clinic", UserType: model.RoleHospital},
	}}
	affs := emptyAffiliations()
	affs.hospitalsByAdmin["u-hosp"] = &model.Hospital{ID: "h1", Name: "City Clinic", AdminID: "u-hosp"}

	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, affs, zerolog.Nop())

	token, _ := svc.IssueAccessToken("u-hosp")
	id, err := r.Resolve(context.Background(), bearer(token))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Hospital == nil || id.Hospital.ID != "h1" {
		t.Errorf("hospital = %+v, want h1", id.Hospital)
	}
}

func TestResolveHospitalAdminWithoutHospitalRecord(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{
		"u-hosp": {ID: "u-hosp", Email: "admin@clinic.test", Username: "clinic", UserType: model.RoleHospital},
	}}
	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, emptyAffiliations(), zerolog.Nop())

	token, _ := svc.IssueAccessToken("u-hosp")
	id, err := r.Resolve(context.Background(), bearer(token))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Resolution succeeds; the admin guards reject this identity later.
	if id.Hospital != nil {
		t.Errorf("hospital = %+v, want nil", id.Hospital)
	}
}

func TestResolveDoctorIdentity(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{
		"u-doc": {ID: "u-doc", Email: "doc@clinic.test", Username: "doc", UserType: model.RoleDoctor},
	}}
	affs := emptyAffiliations()
	affs.doctorsByUser["u-doc"] = &model.Doctor{UserID: "u-doc", Department: "cardiology", HospitalID: "h1"}
	affs.hospitalsByID["h1"] = &model.Hospital{ID: "h1", Name: "City Clinic"}

	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, affs, zerolog.Nop())

	token, _ := svc.IssueAccessToken("u-doc")
	id, err := r.Resolve(context.Background(), bearer(token))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Doctor == nil || id.Doctor.Department != "cardiology" {
		t.Errorf("doctor = %+v", id.Doctor)
	}
	if id.Hospital == nil || id.Hospital.ID != "h1" {
		t.Errorf("hospital = %+v, want h1", id.Hospital)
	}
}

func TestResolveDoctorWithIncompleteProfile(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{
		"u-doc": {ID: "u-doc", Email: "doc@clinic.test", Username: "doc", UserType: model.RoleDoctor},
	}}
	affs := emptyAffiliations()
	affs.doctorsByUser["u-doc"] = &model.Doctor{UserID: "u-doc", Department: "cardiology"}

	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, affs, zerolog.Nop())

	token, _ := svc.IssueAccessToken("u-doc")
	id, err := r.Resolve(context.Background(), bearer(token))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Doctor == nil {
		t.Fatal("doctor profile missing from identity")
	}
	if id.Hospital != nil {
		t.Errorf("hospital = %+v, want nil for unattached doctor", id.Hospital)
	}
}

func TestResolveDoctorWithoutProfile(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{
		"u-doc": {ID: "u-doc", Email: "doc@clinic.test", Username: "doc", UserType: model.RoleDoctor},
	}}
	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, emptyAffiliations(), zerolog.Nop())

	token, _ := svc.IssueAccessToken("u-doc")
	id, err := r.Resolve(context.Background(), bearer(token))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Doctor != nil || id.Hospital != nil {
		t.Errorf("identity = %+v, want bare doctor identity", id)
	}
}

func TestResolveRejectsBadAuthorizationHeaders(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{}}
	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, emptyAffiliations(), zerolog.Nop())

	for _, header := range []string{"", "Basic dXNlcjpwdw==", "Bearer", "Bearer   ", "bearer abc"} {
		_, err := r.Resolve(context.Background(), header)
		if !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("Resolve(%q) = %v, want ErrMissingCredentials", header, err)
		}
	}
}

func TestResolveRejectsRefreshTokenOnAccessPath(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{
		"u1": {ID: "u1", Email: "u1@x.test", Username: "u1", UserType: model.RoleAdmin},
	}}
	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, emptyAffiliations(), zerolog.Nop())

	refresh, _ := svc.IssueRefreshToken("u1")
	_, err := r.Resolve(context.Background(), bearer(refresh))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Resolve = %v, want ErrUnauthenticated", err)
	}
	if !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("Resolve = %v, want wrapped ErrWrongTokenType", err)
	}
}

func TestResolveRejectsExpiredToken(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{
		"u1": {ID: "u1", Email: "u1@x.test", Username: "u1", UserType: model.RoleAdmin},
	}}
	// Negative TTL mints tokens that are already expired.
	svc := NewService(newTestCodec(t), newFakeRevocations(), -time.Minute, -time.Minute)
	r := NewResolver(svc, users, emptyAffiliations(), zerolog.Nop())

	token, err := svc.IssueAccessToken("u1")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	_, err = r.Resolve(context.Background(), bearer(token))
	if !errors.Is(err, ErrUnauthenticated) || !errors.Is(err, ErrExpired) {
		t.Fatalf("Resolve = %v, want ErrUnauthenticated wrapping ErrExpired", err)
	}
}

func TestResolveRejectsRevokedToken(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{
		"u1": {ID: "u1", Email: "u1@x.test", Username: "u1", UserType: model.RoleAdmin},
	}}
	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, emptyAffiliations(), zerolog.Nop())
	ctx := context.Background()

	token, _ := svc.IssueAccessToken("u1")
	cl, err := svc.Verify(token, KindAccess)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if err := svc.Revoke(ctx, cl); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	_, err = r.Resolve(ctx, bearer(token))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Resolve after revoke = %v, want ErrUnauthenticated", err)
	}
}

func TestResolveRejectsUnknownSubject(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{}}
	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, emptyAffiliations(), zerolog.Nop())

	// The token is valid, the account behind it is gone.
	token, _ := svc.IssueAccessToken("ghost")
	_, err := r.Resolve(context.Background(), bearer(token))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Resolve = %v, want ErrUnauthenticated", err)
	}
}

func TestResolveUserDirectoryOutage(t *testing.T) {
	users := &fakeUsers{err: errors.New("connection refused")}
	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, emptyAffiliations(), zerolog.Nop())

	token, _ := svc.IssueAccessToken("u1")
	_, err := r.Resolve(context.Background(), bearer(token))
	if !errors.Is(err, ErrDirectoryUnavailable) {
		t.Fatalf("Resolve = %v, want ErrDirectoryUnavailable", err)
	}
	if errors.Is(err, ErrUnauthenticated) {
		t.Fatal("directory outage must not read as an auth failure")
	}
}

func TestResolveAffiliationDirectoryOutage(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{
		"u-hosp": {ID: "u-hosp", Email: "admin@clinic.test", Username: "clinic", UserType: model.RoleHospital},
	}}
	affs := emptyAffiliations()
	affs.err = errors.New("connection refused")

	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, affs, zerolog.Nop())

	token, _ := svc.IssueAccessToken("u-hosp")
	_, err := r.Resolve(context.Background(), bearer(token))
	if !errors.Is(err, ErrDirectoryUnavailable) {
		t.Fatalf("Resolve = %v, want ErrDirectoryUnavailable", err)
	}
}

func TestResolveRefreshSkipsEnrichment(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{
		"u-hosp": {ID: "u-hosp", Email: "admin@clinic.test", Username: "clinic", UserType: model.RoleHospital},
	}}
	affs := emptyAffiliations()
	affs.hospitalsByAdmin["u-hosp"] = &model.Hospital{ID: "h1", AdminID: "u-hosp"}

	svc := newTestService(t, newFakeRevocations())
	r := NewResolver(svc, users, affs, zerolog.Nop())

	refresh, _ := svc.IssueRefreshToken("u-hosp")
	id, err := r.ResolveRefresh(context.Background(), bearer(refresh))
	if err != nil {
		t.Fatalf("ResolveRefresh: %v", err)
	}
	if id.Hospital != nil {
		t.Errorf("refresh identity carries a hospital: %+v", id.Hospital)
	}
	if id.UserID != "u-hosp" || id.Role != model.RoleHospital {
		t.Errorf("identity = %+v", id)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer   padded  ", "padded", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Token abc", "", false},
	}
	for _, tc := range cases {
		got, err := ExtractBearerToken(tc.header)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ExtractBearerToken(%q) = %q, %v; want %q", tc.header, got, err, tc.want)
		}
		if !tc.ok && !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("ExtractBearerToken(%q) = %v, want ErrMissingCredentials", tc.header, err)
		}
	}
}
