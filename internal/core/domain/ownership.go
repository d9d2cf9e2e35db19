package domain

// JobOwnership is the resolved chain job -> company -> user.
type JobOwnership struct {
	JobID       string
	CompanyID   string
	OwnerUserID string
}

// OwnedBy reports whether the company user userID controls the job.
func (o JobOwnership) OwnedBy(userID string) bool {
	return userID != "" && o.OwnerUserID == userID
}

// ApplicationOwnership is the resolved chain for an application: through its
// job to the employing company's user, and through its seeker to the
// applicant's user.
type ApplicationOwnership struct {
	ApplicationID   string
	Job             JobOwnership
	JobSeekerID     string
	JobSeekerUserID string
}

// EmployerIs reports whether userID owns the company behind the application's job.
func (o ApplicationOwnership) EmployerIs(userID string) bool {
	return o.Job.OwnedBy(userID)
}

// ApplicantIs reports whether userID owns the applying seeker profile.
func (o ApplicationOwnership) ApplicantIs(userID string) bool {
	return userID != "" && o.JobSeekerUserID == userID
}

// JobOwnershipOf builds the chain from a job with its company loaded.
func JobOwnershipOf(j *Job) JobOwnership {
	o := JobOwnership{JobID: j.ID, CompanyID: j.CompanyID}
	if j.Company != nil {
		o.OwnerUserID = j.Company.UserID
	}
	return o
}

// ApplicationOwnershipOf builds the chain from an application with its job,
// job company and seeker loaded.
func ApplicationOwnershipOf(a *JobApplication) ApplicationOwnership {
	o := ApplicationOwnership{ApplicationID: a.ID, JobSeekerID: a.JobSeekerID}
	if a.Job != nil {
		o.Job = JobOwnershipOf(a.Job)
	} else {
		o.Job = JobOwnership{JobID: a.JobID}
	}
	if a.JobSeeker != nil {
		o.JobSeekerUserID = a.JobSeeker.UserID
	}
	return o
}
