package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
)

type businessMessage struct {
	status  int
	message string
}

// businessMessages maps every business code to its HTTP status and the text
// shown to the salon or client. Unknown codes fall back to 400.
var businessMessages = map[string]businessMessage{
	// agendamento
	"invalid_date_or_time":     {http.StatusBadRequest, "Data ou hora inválida."},
	"in_the_past":              {http.StatusBadRequest, "Não é possível agendar no passado."},
	"too_soon":                 {http.StatusBadRequest, "Horário com antecedência menor que a mínima."},
	"outside_business_hours":   {http.StatusBadRequest, "Fora do horário de atendimento."},
	"employee_unavailable":     {http.StatusBadRequest, "Profissional indisponível neste horário."},
	"service_not_offered":      {http.StatusBadRequest, "A profissional não realiza este serviço."},
	"reschedule_limit_reached": {http.StatusBadRequest, "Limite de remarcações atingido."},
	"too_early":                {http.StatusBadRequest, "Ainda não é possível concluir este atendimento."},
	"same_schedule":            {http.StatusBadRequest, "O novo horário é igual ao atual."},
	"too_late_to_cancel":       {http.StatusBadRequest, "Prazo para cancelamento encerrado. Fale com o salão."},
	"client_mismatch":          {http.StatusForbidden, "WhatsApp não confere com o agendamento."},
	"time_conflict":            {http.StatusConflict, "Horário indisponível."},
	"slot_being_booked":        {http.StatusConflict, "Este horário está sendo reservado. Tente novamente."},
	"slot_blocked":             {http.StatusConflict, "Horário bloqueado pelo salão."},
	"invalid_state":            {http.StatusConflict, "Ação não permitida para o status atual."},
	"appointment_not_found":    {http.StatusNotFound, "Agendamento não encontrado."},
	"service_not_found":        {http.StatusNotFound, "Serviço não encontrado."},
	"employee_not_found":       {http.StatusNotFound, "Profissional não encontrada."},

	// promoções
	"promotion_not_found":      {http.StatusNotFound, "Cupom não encontrado."},
	"promotion_inactive":       {http.StatusBadRequest, "Cupom inativo."},
	"promotion_expired":        {http.StatusBadRequest, "Cupom fora da validade."},
	"promotion_exhausted":      {http.StatusBadRequest, "Cupom esgotado."},
	"promotion_not_applicable": {http.StatusBadRequest, "Cupom não vale para este serviço."},

	// horários
	"slot_not_found": {http.StatusNotFound, "Horário não encontrado."},
	"slot_reserved":  {http.StatusConflict, "Horário já reservado por um agendamento."},
	"invalid_range":  {http.StatusBadRequest, "Período inválido."},

	// pagamentos
	"invalid_payment_method":  {http.StatusBadRequest, "Forma de pagamento inválida."},
	"deposit_not_pending":     {http.StatusConflict, "Este agendamento não aguarda sinal."},
	"payment_not_found":       {http.StatusNotFound, "Pagamento não encontrado."},
	"payment_not_refundable":  {http.StatusConflict, "Pagamento não pode ser estornado."},
	"payments_disabled":       {http.StatusServiceUnavailable, "Pagamento online indisponível."},
	"payment_already_pending": {http.StatusConflict, "Já existe um pagamento em andamento."},
	"invalid_notification":    {http.StatusBadRequest, "Notificação inválida."},

	// produtos e imagens
	"product_not_found":  {http.StatusNotFound, "Produto não encontrado."},
	"invalid_movement":   {http.StatusBadRequest, "Tipo de movimentação inválido."},
	"invalid_quantity":   {http.StatusBadRequest, "Quantidade inválida."},
	"insufficient_stock": {http.StatusConflict, "Estoque insuficiente."},
	"invalid_image":      {http.StatusBadRequest, "Imagem inválida. Envie JPEG, PNG ou WebP."},
	"storage_disabled":   {http.StatusServiceUnavailable, "Upload de imagens indisponível."},
	"entity_not_found":   {http.StatusNotFound, "Registro não encontrado."},
	"invalid_entity":     {http.StatusBadRequest, "Tipo de registro inválido."},
}

// respondError writes err as {error_code, message}.
func respondError(c *gin.Context, err error) {
	if code, ok := httperr.BusinessCode(err); ok {
		m, known := businessMessages[code]
		if !known {
			m = businessMessage{http.StatusBadRequest, "Requisição inválida."}
		}
		httperr.Write(c, m.status, code, m.message)
		return
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		httperr.NotFound(c, "not_found", "Registro não encontrado.")
	case httperr.IsUniqueViolation(err):
		httperr.Conflict(c, "already_exists", "Registro já existe.")
	default:
		log.Printf("internal error %s %s request_id=%s: %v",
			c.Request.Method, c.FullPath(), c.GetString(middleware.ContextRequestID), err)
		httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
	}
}

func badRequest(c *gin.Context, err error) {
	httperr.BadRequest(c, "invalid_request", "Dados inválidos: "+err.Error())
}

// paramID parses a positive numeric path param, answering 400 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

// queryUint parses an optional numeric query param; empty gives nil.
func queryUint(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Parâmetro inválido: "+name+".")
		return nil, false
	}
	id := uint(v)
	return &id, true
}
