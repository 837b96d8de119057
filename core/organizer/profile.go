package organizer

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
)

const profilePhotoOwner = "profile"

// UpdateProfile applies a validated EditProfile to the actor. The actor is updated in place.
func (svc *Service) UpdateProfile(ctx context.Context, actor Actor, ep EditProfile) error {
	if actor.IsAnonymous() {
		return ErrAnonymous
	}
	st := *actor.Student
	st.Name = ep.Name
	st.Mood = ep.Mood
	st.Description = TextToHTML(ep.Description)
	if _, err := svc.repo.UpdateStudent(ctx, st); err != nil {
		return errors.Wrap(err, "updating profile")
	}
	actor.Student.Name = st.Name
	actor.Student.Mood = st.Mood
	actor.Student.Description = st.Description
	return nil
}

// ProfileText is the editable form of the student's description.
func ProfileText(st Student) string {
	return HTMLToText(st.Description)
}

// SetProfilePhoto replaces the actor's profile photo.
func (svc *Service) SetProfilePhoto(ctx context.Context, actor Actor, filename string, r io.Reader) error {
	if actor.IsAnonymous() {
		return ErrAnonymous
	}
	handle, err := svc.files.Put(ctx, profilePhotoOwner, filename, r)
	if err != nil {
		return providerErr("storing profile photo", err)
	}

	old := actor.Student.ProfilePhoto
	st := *actor.Student
	st.ProfilePhoto = handle
	if _, err = svc.repo.UpdateStudent(ctx, st); err != nil {
		_ = svc.files.Delete(ctx, handle)
		return errors.Wrap(err, "updating profile photo")
	}
	actor.Student.ProfilePhoto = handle

	if old != "" {
		if err = svc.files.Delete(ctx, old); err != nil {
			svc.logger.Warn("deleting previous profile photo", err)
		}
	}
	return nil
}

// OpenProfilePhoto returns the photo of the student with the given id.
func (svc *Service) OpenProfilePhoto(ctx context.Context, studentID string) (io.ReadCloser, error) {
	st, err := svc.repo.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st.ProfilePhoto == "" {
		return nil, ErrFileNotFound
	}
	rc, err := svc.files.Open(ctx, st.ProfilePhoto)
	if err != nil {
		if errors.Is(err, core.ErrBlobNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, providerErr("opening profile photo", err)
	}
	return rc, nil
}
