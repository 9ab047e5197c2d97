package appointment

// Business error codes returned through httperr.ErrBusiness.
const (
	CodeInvalidDateOrTime    = "invalid_date_or_time"
	CodeInThePast            = "in_the_past"
	CodeTooSoon              = "too_soon"
	CodeOutsideBusinessHours = "outside_business_hours"
	CodeEmployeeUnavailable  = "employee_unavailable"
	CodeEmployeeNotFound     = "employee_not_found"
	CodeServiceNotOffered    = "service_not_offered"
	CodeServiceNotFound      = "service_not_found"
	CodeAppointmentNotFound  = "appointment_not_found"
	CodeTimeConflict         = "time_conflict"
	CodeInvalidState         = "invalid_state"
	CodeRescheduleLimit      = "reschedule_limit_reached"
	CodeTooEarly             = "too_early"
	CodeClientMismatch       = "client_mismatch"
	CodePromotionNotFound    = "promotion_not_found"
	CodePromotionInactive    = "promotion_inactive"
	CodePromotionExpired     = "promotion_expired"
	CodePromotionExhausted   = "promotion_exhausted"
	CodePromotionNotAllowed  = "promotion_not_applicable"
	CodeSlotBeingBooked      = "slot_being_booked"
	CodeSameSchedule         = "same_schedule"
	CodeTooLateToCancel      = "too_late_to_cancel"
	CodeSlotBlocked          = "slot_blocked"
)
