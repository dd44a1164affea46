package auth

import (
	"testing"

	"github.com/reelfeed/reelfeed/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

func TestToken(t *testing.T) {
	Convey("Given an in-memory keyring", t, func() {
		keyring.MockInit()
		viper.Set(key.APIToken, "")
		Reset(func() { viper.Set(key.APIToken, "") })

		Convey("No token resolves to empty without error", func() {
			token, origin, err := Resolve()
			So(err, ShouldBeNil)
			So(token, ShouldBeEmpty)
			So(origin, ShouldEqual, OriginNone)
		})

		Convey("A stored token is returned", func() {
			So(SetToken("  secret-token "), ShouldBeNil)

			token, origin, err := Resolve()
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "secret-token")
			So(origin, ShouldEqual, OriginKeyring)

			Convey("The config key overrides it", func() {
				viper.Set(key.APIToken, "from-env")
				token, origin, _ := Resolve()
				So(token, ShouldEqual, "from-env")
				So(origin, ShouldEqual, OriginConfig)
			})

			Convey("Deleting twice is fine", func() {
				So(DeleteToken(), ShouldBeNil)
				So(DeleteToken(), ShouldBeNil)
				token, _ := Token()
				So(token, ShouldBeEmpty)
			})
		})

		Convey("Empty tokens are rejected", func() {
			So(SetToken(" "), ShouldNotBeNil)
		})

		Convey("Tokens are masked", func() {
			So(Mask("abcdefgh"), ShouldEqual, "****efgh")
			So(Mask("abc"), ShouldEqual, "***")
		})
	})
}
