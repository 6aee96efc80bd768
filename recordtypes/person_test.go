package recordtypes

import (
	"testing"

	"github.com/bearlytools/recordmodel/codec"
	"github.com/bearlytools/recordmodel/errs"
)

func TestPersonRefResolvesAcrossSharedDecodeContext(t *testing.T) {
	ctx := errs.EContext()

	alice := NewPerson()
	alice.SetName("Alice")
	bob := NewPerson()
	bob.SetName("Bob")
	_ = alice.SetPeer(bob)

	aliceDict, err := codec.Encode(ctx, alice)
	if err != nil {
		t.Fatalf("TestPersonRefResolvesAcrossSharedDecodeContext: Encode(alice) error: %v", err)
	}
	bobDict, err := codec.Encode(ctx, bob)
	if err != nil {
		t.Fatalf("TestPersonRefResolvesAcrossSharedDecodeContext: Encode(bob) error: %v", err)
	}

	dctx := codec.NewDecodeContext()

	alice2 := NewPerson()
	unresolved, err := codec.Decode(ctx, alice2, aliceDict, dctx)
	if err != nil {
		t.Fatalf("TestPersonRefResolvesAcrossSharedDecodeContext: Decode(alice) error: %v", err)
	}
	if len(unresolved) != 1 || !unresolved[bob.OID()] {
		t.Fatalf("TestPersonRefResolvesAcrossSharedDecodeContext: unresolved = %v, want {%s}", unresolved, bob.OID())
	}
	if _, ok := alice2.Peer(); ok {
		t.Fatalf("TestPersonRefResolvesAcrossSharedDecodeContext: alice2.Peer() resolved before bob was decoded")
	}

	bob2 := NewPerson()
	unresolved, err = codec.Decode(ctx, bob2, bobDict, dctx)
	if err != nil {
		t.Fatalf("TestPersonRefResolvesAcrossSharedDecodeContext: Decode(bob) error: %v", err)
	}
	if len(unresolved) != 0 {
		t.Fatalf("TestPersonRefResolvesAcrossSharedDecodeContext: unresolved = %v, want empty", unresolved)
	}

	peer, ok := alice2.Peer()
	if !ok {
		t.Fatalf("TestPersonRefResolvesAcrossSharedDecodeContext: alice2.Peer() still unresolved after decoding bob")
	}
	if peer.Name() != "Bob" {
		t.Errorf("TestPersonRefResolvesAcrossSharedDecodeContext: peer.Name() = %q, want Bob", peer.Name())
	}
}

func TestPersonFriendsIdMapAddRemove(t *testing.T) {
	p := NewPerson()
	carol := NewPerson()
	carol.SetName("Carol")
	dave := NewPerson()
	dave.SetName("Dave")

	p.AddFriend(carol)
	p.AddFriend(dave)
	if p.Friends().Len() != 2 {
		t.Fatalf("TestPersonFriendsIdMapAddRemove: Len() = %d, want 2", p.Friends().Len())
	}
	if !p.Friends().Has(carol) {
		t.Errorf("TestPersonFriendsIdMapAddRemove: Has(carol) = false, want true")
	}

	p.RemoveFriend(carol)
	if p.Friends().Len() != 1 {
		t.Fatalf("TestPersonFriendsIdMapAddRemove: after removal Len() = %d, want 1", p.Friends().Len())
	}
	if p.Friends().Has(carol) {
		t.Errorf("TestPersonFriendsIdMapAddRemove: Has(carol) = true after removal, want false")
	}
	if !p.Friends().Has(dave) {
		t.Errorf("TestPersonFriendsIdMapAddRemove: Has(dave) = false, want true")
	}
}

func TestPersonSubAgeOverflowLower(t *testing.T) {
	p := NewPerson()
	_ = p.SetAge(5)

	_, _, err := p.SubAge(10)
	if err == nil {
		t.Fatalf("TestPersonSubAgeOverflowLower: SubAge(10) on age=5 succeeded, want errs.KindOverflowLower")
	}
	if !errs.Is(err, errs.KindOverflowLower) {
		t.Errorf("TestPersonSubAgeOverflowLower: err = %v, want KindOverflowLower", err)
	}
	if p.Age() != 5 {
		t.Errorf("TestPersonSubAgeOverflowLower: Age() = %d after failed SubAge, want unchanged 5", p.Age())
	}
}
