package memberaccess_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
	"github.com/spacegov/spacegov/internal/space/spacetest"
)

var (
	alice    = spacetest.Account(0)
	bob      = spacetest.Account(1)
	carol    = spacetest.Account(2)
	dave     = spacetest.Account(3)
	outsider = spacetest.Account(99)
)

func id(n uint64) *big.Int { return new(big.Int).SetUint64(n) }

func TestPropose_SingleEditorExecutesOnCreation(t *testing.T) {
	f := spacetest.New(t, spacetest.Config(alice))

	pid, err := f.Propose(alice, carol, domain.MemberChangeAddMember)
	require.NoError(t, err)

	p, err := f.Space.MemberAccess.GetProposal(pid)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), p.Parameters.MinApprovals)
	assert.Equal(t, uint16(1), p.Approvals)
	assert.True(t, p.Executed)
	assert.True(t, f.Space.MainVoting.IsMember(carol))

	status, err := f.Space.MemberAccess.Status(pid, f.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.MemberProposalStatusExecuted, status)
}

func TestPropose_TwoApprovalsWithSeveralEditors(t *testing.T) {
	f := spacetest.New(t, spacetest.Config(alice, bob, carol))
	ma := f.Space.MemberAccess

	pid, err := f.Propose(alice, dave, domain.MemberChangeAddEditor)
	require.NoError(t, err)

	p, err := ma.GetProposal(pid)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), p.Parameters.MinApprovals)
	assert.Equal(t, uint16(1), p.Approvals, "the proposing editor approves")
	assert.False(t, p.Executed)
	assert.Equal(t, f.Space.MainVotingAddress, p.Action.To)

	_, err = f.MemberAccess(alice, "approve", id(pid))
	var forbidden domain.ApprovalCastForbiddenErr
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, alice, forbidden.Account)

	out, err := f.MemberAccess(outsider, "canApprove", id(pid), bob)
	require.NoError(t, err)
	assert.Equal(t, true, out[0])

	_, err = f.MemberAccess(bob, "approve", id(pid))
	require.NoError(t, err)
	assert.True(t, f.Space.MainVoting.IsEditor(dave))

	// executed: every further action reverts
	_, err = f.MemberAccess(carol, "approve", id(pid))
	assert.ErrorIs(t, err, domain.ErrApprovalCastForbidden)
	_, err = f.MemberAccess(carol, "reject", id(pid))
	assert.ErrorIs(t, err, domain.ErrApprovalCastForbidden)
	_, err = f.MemberAccess(carol, "execute", id(pid))
	assert.ErrorIs(t, err, domain.ErrProposalExecutionForbidden)
}

func TestPropose_NonEditorProposerDoesNotApprove(t *testing.T) {
	f := spacetest.New(t, spacetest.Config(alice, bob))

	pid, err := f.Propose(outsider, outsider, domain.MemberChangeAddMember)
	require.NoError(t, err)
	p, err := f.Space.MemberAccess.GetProposal(pid)
	require.NoError(t, err)
	assert.Zero(t, p.Approvals)
	assert.Equal(t, outsider, p.Creator)

	_, err = f.MemberAccess(outsider, "approve", id(pid))
	assert.ErrorIs(t, err, domain.ErrApprovalCastForbidden)

	_, err = f.MemberAccess(alice, "approve", id(pid))
	require.NoError(t, err)
	assert.False(t, f.Space.MainVoting.IsMember(outsider))
	_, err = f.MemberAccess(bob, "approve", id(pid))
	require.NoError(t, err)
	assert.True(t, f.Space.MainVoting.IsMember(outsider))
}

func TestReject_Forecloses(t *testing.T) {
	f := spacetest.New(t, spacetest.Config(alice, bob, carol))
	ma := f.Space.MemberAccess

	pid, err := f.Propose(outsider, outsider, domain.MemberChangeAddMember)
	require.NoError(t, err)

	_, err = f.MemberAccess(alice, "approve", id(pid))
	require.NoError(t, err)
	_, err = f.MemberAccess(bob, "reject", id(pid))
	require.NoError(t, err)

	status, err := ma.Status(pid, f.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.MemberProposalStatusRejected, status)

	_, err = f.MemberAccess(carol, "approve", id(pid))
	assert.ErrorIs(t, err, domain.ErrApprovalCastForbidden)
	_, err = f.MemberAccess(carol, "reject", id(pid))
	assert.ErrorIs(t, err, domain.ErrApprovalCastForbidden)
	_, err = f.MemberAccess(carol, "execute", id(pid))
	assert.ErrorIs(t, err, domain.ErrProposalExecutionForbidden)
	assert.False(t, f.Space.MainVoting.IsMember(outsider))

	p, err := ma.GetProposal(pid)
	require.NoError(t, err)
	assert.Equal(t, bob, p.RejectedBy)
}

func TestReject_OnlyEditors(t *testing.T) {
	f := spacetest.New(t, spacetest.Config(alice, bob))
	pid, err := f.Propose(outsider, outsider, domain.MemberChangeAddMember)
	require.NoError(t, err)

	_, err = f.MemberAccess(outsider, "reject", id(pid))
	assert.ErrorIs(t, err, domain.ErrApprovalCastForbidden)
}

func TestPropose_Preconditions(t *testing.T) {
	cfg := spacetest.Config(alice, bob)
	cfg.Members = []common.Address{carol}
	f := spacetest.New(t, cfg)

	tests := []struct {
		name     string
		proposer common.Address
		target   common.Address
		kind     domain.MemberChangeKind
		wantErr  error
	}{
		{"member already", carol, carol, domain.MemberChangeAddMember, domain.ErrAlreadyAMember},
		{"editor already a member", alice, alice, domain.MemberChangeAddMember, domain.ErrAlreadyAMember},
		{"remove a non member", alice, dave, domain.MemberChangeRemoveMember, domain.ErrNotAMember},
		{"editor already", alice, bob, domain.MemberChangeAddEditor, domain.ErrAlreadyAnEditor},
		{"remove a non editor", alice, carol, domain.MemberChangeRemoveEditor, domain.ErrNotAnEditor},
		{"outsider proposing removal", outsider, carol, domain.MemberChangeRemoveMember, domain.ErrNotAMember},
		{"zero target", alice, common.Address{}, domain.MemberChangeAddMember, domain.ErrInvalidAddress},
		{"unknown kind", alice, dave, domain.MemberChangeKind(9), domain.ErrInvalidMemberChange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Propose(tt.proposer, tt.target, tt.kind)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, f.Space.MemberAccess.ProposalCount())
}

func TestProposeFor_RequiresProposerPermission(t *testing.T) {
	f := spacetest.New(t, spacetest.Config(alice))

	_, err := f.MemberAccess(alice, "proposeMemberChangeFor", []byte{}, dave, uint8(domain.MemberChangeAddMember), dave)
	var unauthorized domain.DaoUnauthorizedErr
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, domain.ProposerPermissionID, unauthorized.PermissionID)
}

func TestPropose_SameBlockChangeReverts(t *testing.T) {
	f := spacetest.New(t, spacetest.Config(alice))

	_, err := f.Propose(alice, bob, domain.MemberChangeAddEditor)
	require.NoError(t, err)
	require.True(t, f.Space.MainVoting.IsEditor(bob))

	_, err = f.Propose(alice, carol, domain.MemberChangeAddMember)
	assert.ErrorIs(t, err, domain.ErrProposalCreationForbidden)

	f.RT.Mine(1)
	pid, err := f.Propose(alice, carol, domain.MemberChangeAddMember)
	require.NoError(t, err)
	p, err := f.Space.MemberAccess.GetProposal(pid)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), p.Parameters.MinApprovals)
}

func TestProposal_Expires(t *testing.T) {
	f := spacetest.New(t, spacetest.Config(alice, bob))
	ma := f.Space.MemberAccess

	pid, err := f.Propose(alice, carol, domain.MemberChangeAddMember)
	require.NoError(t, err)

	f.RT.AdvanceTime(spacetest.Day)
	status, err := ma.Status(pid, f.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.MemberProposalStatusExpired, status)

	_, err = f.MemberAccess(bob, "approve", id(pid))
	assert.ErrorIs(t, err, domain.ErrApprovalCastForbidden)
	assert.False(t, ma.CanExecute(pid, f.Now()))
}

func TestUpdateMultisigSettings(t *testing.T) {
	f := spacetest.New(t, spacetest.Config(alice))

	settings := bindings.MultisigSettings{ProposalDuration: 2 * spacetest.Day}
	_, err := f.MemberAccess(alice, "updateMultisigSettings", settings)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	data, err := bindings.MemberAccess().Pack("updateMultisigSettings", settings)
	require.NoError(t, err)
	action := domain.Action{To: f.Space.MemberAccessAddress, Value: new(big.Int), Data: data}
	f.PassAndExecute(alice, []common.Address{alice}, action)

	assert.Equal(t, 2*spacetest.Day, f.Space.MemberAccess.MultisigSettings().ProposalDuration)

	// the settings changed in this block
	_, err = f.Propose(alice, carol, domain.MemberChangeAddMember)
	assert.ErrorIs(t, err, domain.ErrProposalCreationForbidden)
}

func TestMemberAccess_CannotExecuteArbitraryActions(t *testing.T) {
	f := spacetest.New(t, spacetest.Config(alice))

	// the member approval plugin may only have the DAO change membership
	grant, err := bindings.PackGrant(f.Space.DAOAddress, outsider, domain.RootPermissionID)
	require.NoError(t, err)
	actions := []domain.Action{{To: f.Space.DAOAddress, Value: new(big.Int), Data: grant}}
	data, err := bindings.PackExecute(common.Hash{}, actions, nil)
	require.NoError(t, err)

	_, err = f.RT.Send(f.Space.MemberAccessAddress, f.Space.DAOAddress, nil, data)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
