package client

import "context"

// OnboardingStep identifies one screen of the signup flow.
type OnboardingStep string

const (
	StepPhone              OnboardingStep = "phone"
	StepCode               OnboardingStep = "code"
	StepName               OnboardingStep = "name"
	StepUsername           OnboardingStep = "username"
	StepProfilePicture     OnboardingStep = "profile-picture"
	StepContactsPermission OnboardingStep = "contacts-permission"
	StepInviteFriends      OnboardingStep = "invite-friends"
	StepDone               OnboardingStep = "done"
)

// stepOrder fixes the forward sequence of the flow.
var stepOrder = []OnboardingStep{
	StepPhone,
	StepCode,
	StepName,
	StepUsername,
	StepProfilePicture,
	StepContactsPermission,
	StepInviteFriends,
	StepDone,
}

// OnboardingFlow drives the signup step machine. Forward movement happens
// through the step-specific Submit methods; Back always succeeds.
type OnboardingFlow struct {
	session *Session

	step  OnboardingStep
	phone string

	// Collected along the way, submitted together at the end.
	name     string
	username string
}

// NewOnboardingFlow starts a flow at the phone step.
func NewOnboardingFlow(session *Session) *OnboardingFlow {
	return &OnboardingFlow{session: session, step: StepPhone}
}

// Step returns the current step.
func (f *OnboardingFlow) Step() OnboardingStep {
	return f.step
}

// Back moves one step backwards. It is unconditional: any collected input
// for the abandoned step is simply re-entered on the way forward.
func (f *OnboardingFlow) Back() {
	for i, step := range stepOrder {
		if step == f.step && i > 0 {
			f.step = stepOrder[i-1]
			return
		}
	}
}

// SubmitPhone requests an SMS code and advances to the code step.
func (f *OnboardingFlow) SubmitPhone(ctx context.Context, phoneNumber string) error {
	if err := ValidatePhone(phoneNumber); err != nil {
		return err
	}
	if err := f.session.client.RequestVerification(ctx, phoneNumber); err != nil {
		return err
	}
	f.phone = phoneNumber
	f.step = StepCode
	return nil
}

// SubmitCode confirms the SMS code. Returning users skip the rest of the
// flow and land on done already authenticated; new users continue to the
// name step.
func (f *OnboardingFlow) SubmitCode(ctx context.Context, code string) error {
	result, err := f.session.VerifyPhone(ctx, f.phone, code)
	if err != nil {
		return err
	}

	if result.Existing() {
		f.step = StepDone
		return nil
	}
	f.step = StepName
	return nil
}

// SubmitName records the display name and advances.
func (f *OnboardingFlow) SubmitName(name string) error {
	if err := ValidateRequired("name", name); err != nil {
		return err
	}
	f.name = name
	f.step = StepUsername
	return nil
}

// SubmitAccount finishes registration with the username plus credentials and
// advances to the profile picture step.
func (f *OnboardingFlow) SubmitAccount(ctx context.Context, username, email, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	f.username = username
	params := RegisterParams{
		Email:    email,
		Password: password,
		Username: username,
		Name:     f.name,
		Phone:    f.phone,
	}
	if err := f.session.Register(ctx, params); err != nil {
		return err
	}

	f.step = StepProfilePicture
	return nil
}

// Skip advances past an optional step (profile picture, contacts
// permission, invite friends) without submitting anything.
func (f *OnboardingFlow) Skip() {
	switch f.step {
	case StepProfilePicture:
		f.step = StepContactsPermission
	case StepContactsPermission:
		f.step = StepInviteFriends
	case StepInviteFriends:
		f.step = StepDone
	}
}

// Done reports whether the flow has finished.
func (f *OnboardingFlow) Done() bool {
	return f.step == StepDone
}
