package globalstate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/cep57"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

// AccessRights is the 3 bit capability set carried by a URef.
type AccessRights byte

const (
	AccessNone         AccessRights = 0
	AccessRead         AccessRights = 1
	AccessWrite        AccessRights = 2
	AccessAdd          AccessRights = 4
	AccessReadWrite    AccessRights = AccessRead | AccessWrite
	AccessReadAdd      AccessRights = AccessRead | AccessAdd
	AccessAddWrite     AccessRights = AccessAdd | AccessWrite
	AccessReadAddWrite AccessRights = AccessRead | AccessAdd | AccessWrite
)

func (r AccessRights) Valid() bool { return r <= AccessReadAddWrite }

func (r AccessRights) String() string {
	switch r {
	case AccessNone:
		return "NONE"
	case AccessRead:
		return "READ"
	case AccessWrite:
		return "WRITE"
	case AccessAdd:
		return "ADD"
	case AccessReadWrite:
		return "READ_WRITE"
	case AccessReadAdd:
		return "READ_ADD"
	case AccessAddWrite:
		return "ADD_WRITE"
	case AccessReadAddWrite:
		return "READ_ADD_WRITE"
	}
	return fmt.Sprintf("INVALID(%d)", byte(r))
}

// URef is an unforgeable reference: a 32 byte address plus access rights.
type URef struct {
	Addr   [HashSize]byte
	Rights AccessRights
}

const (
	urefPrefix    = "uref-"
	urefSuffixLen = 3
	URefSize      = HashSize + 1
)

func NewURef(addr []byte, rights AccessRights) (URef, error) {
	if len(addr) != HashSize {
		return URef{}, errors.Wrapf(sdkerr.ErrFormat, "uref address must be %d bytes, got %d", HashSize, len(addr))
	}
	if !rights.Valid() {
		return URef{}, errors.Wrapf(sdkerr.ErrFormat, "uref access rights %d out of range", byte(rights))
	}
	var u URef
	copy(u.Addr[:], addr)
	u.Rights = rights
	return u, nil
}

// ParseURef parses "uref-<hex address>-<3 digit access rights>".
func ParseURef(s string) (URef, error) {
	if !strings.HasPrefix(s, urefPrefix) {
		return URef{}, errors.Wrapf(sdkerr.ErrInvalidArgument, "%q does not start with %q", s, urefPrefix)
	}
	body := strings.TrimPrefix(s, urefPrefix)
	dash := strings.LastIndex(body, "-")
	if dash < 0 {
		return URef{}, errors.Wrapf(sdkerr.ErrFormat, "uref %q has no access rights suffix", s)
	}
	addrHex, suffix := body[:dash], body[dash+1:]
	if len(suffix) != urefSuffixLen {
		return URef{}, errors.Wrapf(sdkerr.ErrFormat, "uref access rights suffix %q must be %d digits", suffix, urefSuffixLen)
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return URef{}, errors.Wrapf(sdkerr.ErrFormat, "uref access rights suffix %q is not numeric", suffix)
		}
	}
	rights, err := strconv.Atoi(suffix)
	if err != nil || rights > int(AccessReadAddWrite) {
		return URef{}, errors.Wrapf(sdkerr.ErrFormat, "uref access rights %q out of range", suffix)
	}
	addr, err := cep57.Decode(addrHex)
	if err != nil {
		return URef{}, errors.Wrapf(err, "uref address %q", addrHex)
	}
	if len(addr) != HashSize {
		return URef{}, errors.Wrapf(sdkerr.ErrFormat, "uref address must be %d bytes, got %d", HashSize, len(addr))
	}
	return NewURef(addr, AccessRights(rights))
}

func (u URef) String() string {
	return fmt.Sprintf("%s%s-%03d", urefPrefix, cep57.Encode(u.Addr[:]), byte(u.Rights))
}

// Bytes returns the address followed by the access rights byte.
func (u URef) Bytes() []byte {
	return append(append([]byte(nil), u.Addr[:]...), byte(u.Rights))
}

func URefFromBytes(b []byte) (URef, int, error) {
	if len(b) < URefSize {
		return URef{}, 0, errors.Wrapf(sdkerr.ErrFormat, "uref needs %d bytes, have %d", URefSize, len(b))
	}
	u, err := NewURef(b[:HashSize], AccessRights(b[HashSize]))
	return u, URefSize, err
}

func (u URef) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

func (u *URef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(sdkerr.ErrFormat, err.Error())
	}
	parsed, err := ParseURef(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
