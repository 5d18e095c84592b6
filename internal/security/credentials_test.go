package security

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"tourbase/internal/model/user"
)

func TestPreSave(t *testing.T) {
	mgr := NewManager()

	Convey("PreSave", t, func() {
		Convey("hashes a modified password and discards the confirmation", func() {
			u := &user.User{Password: "pass1234", PasswordConfirm: "pass1234"}
			So(mgr.PreSave(u, true, true), ShouldBeNil)

			So(u.Password, ShouldNotEqual, "pass1234")
			So(strings.HasPrefix(u.Password, "$2a$12$"), ShouldBeTrue)
			So(u.PasswordConfirm, ShouldBeEmpty)
			So(mgr.CorrectPassword("pass1234", u.Password), ShouldBeTrue)
		})

		Convey("does not touch an unmodified password", func() {
			u := &user.User{Password: "$2a$12$storedhash"}
			So(mgr.PreSave(u, false, false), ShouldBeNil)
			So(u.Password, ShouldEqual, "$2a$12$storedhash")
			So(u.PasswordChangedAt, ShouldBeNil)
		})

		Convey("back-dates passwordChangedAt by one second on existing documents", func() {
			u := &user.User{Password: "newpass1234", PasswordConfirm: "newpass1234"}
			before := time.Now()
			So(mgr.PreSave(u, true, false), ShouldBeNil)

			So(u.PasswordChangedAt, ShouldNotBeNil)
			So(u.PasswordChangedAt.Before(before), ShouldBeTrue)
			So(before.Sub(*u.PasswordChangedAt), ShouldBeLessThan, 2*time.Second)
		})

		Convey("never sets passwordChangedAt on new documents", func() {
			u := &user.User{Password: "pass1234", PasswordConfirm: "pass1234"}
			So(mgr.PreSave(u, true, true), ShouldBeNil)
			So(u.PasswordChangedAt, ShouldBeNil)
		})
	})
}

func TestCorrectPassword(t *testing.T) {
	mgr := NewManager()

	Convey("CorrectPassword", t, func() {
		u := &user.User{Password: "pass1234"}
		So(mgr.PreSave(u, true, true), ShouldBeNil)

		So(mgr.CorrectPassword("pass1234", u.Password), ShouldBeTrue)
		So(mgr.CorrectPassword("wrongpass", u.Password), ShouldBeFalse)
	})
}

func TestChangedPasswordAfter(t *testing.T) {
	mgr := NewManager()

	Convey("ChangedPasswordAfter", t, func() {
		Convey("false when the password was never changed", func() {
			u := &user.User{}
			So(mgr.ChangedPasswordAfter(u, time.Now().Unix()), ShouldBeFalse)
		})

		Convey("true for tokens issued before the change", func() {
			changed := time.Now()
			u := &user.User{PasswordChangedAt: &changed}
			So(mgr.ChangedPasswordAfter(u, changed.Add(-time.Hour).Unix()), ShouldBeTrue)
		})

		Convey("false for tokens issued after the change", func() {
			changed := time.Now().Add(-time.Hour)
			u := &user.User{PasswordChangedAt: &changed}
			So(mgr.ChangedPasswordAfter(u, time.Now().Unix()), ShouldBeFalse)
		})

		Convey("the one-second back-date invalidates same-instant tokens", func() {
			u := &user.User{Password: "newpass1234", PasswordConfirm: "newpass1234"}
			issuedAt := time.Now().Unix()
			So(mgr.PreSave(u, true, false), ShouldBeNil)

			// The token and the change happened within the same second;
			// the back-date makes the change post-date the token.
			So(mgr.ChangedPasswordAfter(u, issuedAt-1), ShouldBeTrue)
		})
	})
}

func TestResetToken(t *testing.T) {
	mgr := NewManager()

	Convey("reset tokens", t, func() {
		u := &user.User{}
		raw, err := mgr.CreateResetToken(u)
		So(err, ShouldBeNil)

		Convey("the raw token is returned once and only its hash persists", func() {
			So(raw, ShouldHaveLength, 64) // 32 bytes hex
			So(u.PasswordResetToken, ShouldNotEqual, raw)
			So(u.PasswordResetToken, ShouldEqual, HashResetToken(raw))
			So(u.PasswordResetExpires, ShouldNotBeNil)
		})

		Convey("validation succeeds for the raw token before expiry", func() {
			So(mgr.ResetTokenValid(u, raw, time.Now()), ShouldBeTrue)
		})

		Convey("validation fails for any other string", func() {
			So(mgr.ResetTokenValid(u, raw+"x", time.Now()), ShouldBeFalse)
			So(mgr.ResetTokenValid(u, "", time.Now()), ShouldBeFalse)
		})

		Convey("validation fails after the 10-minute expiry", func() {
			So(mgr.ResetTokenValid(u, raw, time.Now().Add(11*time.Minute)), ShouldBeFalse)
		})

		Convey("a cleared token validates nothing", func() {
			mgr.ClearResetToken(u)
			So(mgr.ResetTokenValid(u, raw, time.Now()), ShouldBeFalse)
		})
	})
}
