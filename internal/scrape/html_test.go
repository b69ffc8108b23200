package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

const inboxHTML = `<table><tbody>
<tr class="message unread">
  <td><span class="adr"><span class="rcmContactAddress" title="ana@example.com">Ana</span></span></td>
  <td><span class="subject"><a href="#">Webinar   question</a></span></td>
  <td><span class="date">Today 10:15</span></td>
</tr>
<tr class="message">
  <td><span class="adr"><span class="rcmContactAddress">Bob</span></span></td>
  <td><span class="subject"><a href="#">Invoice</a></span></td>
  <td><span class="date">Tue 07:46</span></td>
</tr>
<tr class="message"><td>no date</td></tr>
</tbody></table>`

func TestParseInbox(t *testing.T) {
	rows, err := ParseInbox(strings.NewReader(inboxHTML))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ana@example.com", rows[0].Text(models.ColEmailSender))
	assert.Equal(t, "Webinar question", rows[0].Text(models.ColEmailSubject))
	assert.Equal(t, "Today 10:15", rows[0].Text(models.ColEmailDate))
	assert.Equal(t, "Bob", rows[1].Text(models.ColEmailSender))
}

const ordersHTML = `<table><tbody>
<tr class="iedit"><td class="title">1052</td><td class="wpsc_first_name">Ana</td><td class="wpsc_last_name">Ruiz</td>
<td class="wpsc_email_address">ana@example.com</td><td class="wpsc_order_status">Accepted Payment</td>
<td class="date">Order placed 03-02-2024 at 14:30</td></tr>
<tr class="iedit"><td class="title">1051</td><td class="wpsc_first_name">Bob</td><td class="wpsc_last_name">Lee</td>
<td class="wpsc_email_address">bob@example.com</td><td class="wpsc_order_status">Incomplete Sale</td>
<td class="date">Order placed 02-02-2024 at 09:00</td></tr>
<tr class="iedit"><td class="title">1050</td></tr>
</tbody></table>`

func TestParseOrders(t *testing.T) {
	orders, err := ParseOrders(strings.NewReader(ordersHTML))
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, Order{
		ID: "1052", FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com",
		Status: "Accepted Payment", Date: "Order placed 03-02-2024 at 14:30",
	}, orders[0])
}

func TestParseOrderDetail(t *testing.T) {
	d, err := ParseOrderDetail(strings.NewReader(`<form>
		<textarea name="wpsc_items_ordered">Webinar: Interpreting 101 x1</textarea>
		<input name="wpsc_total_amount" value=" £45.00 ">
	</form>`))
	require.NoError(t, err)
	assert.Equal(t, OrderDetail{Items: "Webinar: Interpreting 101 x1", Amount: "£45.00"}, d)
}

const timelineHTML = `<div class="publish_timeline_qL9zu">
  <div class="publish_postContainer_x1">orphan before any date</div>
  <div class="publish_base_Y1USt">Monday, 1 January</div>
  <div class="publish_postContainer_ab12">
    <div data-channel="linkedin"></div>
    <span class="publish_labelContainer_NIys3">9:30 AM</span>
    <p class="publish_body_oZVDR">New course   out</p>
    <div class="publish_wrapper_6Zayg"><span class="publish_label_79dYt">Reactions</span><span class="publish_metric_3fmE3">12</span></div>
    <div class="publish_wrapper_6Zayg"><span class="publish_label_79dYt">Impressions</span><span class="publish_metric_3fmE3">300</span></div>
    <div class="publish_wrapper_6Zayg"><span class="publish_label_79dYt">Eng. Rate</span><span class="publish_metric_3fmE3">4</span></div>
  </div>
  <div class="publish_base_Y1USt">Tuesday, 2 January</div>
  <div class="publish_wrapper_KDBT- other">
    <span class="publish_channelName_MobA0">Facebook</span>
    <div class="publish_wrapper_6Zayg"><span class="publish_label_79dYt">Likes</span><span class="publish_metric_3fmE3">5</span></div>
    <div class="publish_wrapper_6Zayg"><span class="publish_label_79dYt">Comments</span><span class="publish_metric_3fmE3">2</span></div>
  </div>
</div>`

func TestParseTimeline(t *testing.T) {
	posts, err := ParseTimeline(strings.NewReader(timelineHTML))
	require.NoError(t, err)
	require.Len(t, posts, 2)

	p := posts[0]
	assert.Equal(t, "Monday, 1 January", p.DateHeader)
	assert.Equal(t, "linkedin", p.Platform)
	assert.Equal(t, "9:30 AM", p.Time)
	assert.Equal(t, "New course out", p.Text)
	assert.Equal(t, "12", p.LikesReactions())
	assert.Equal(t, "4", p.ClicksEngagement())

	assert.Equal(t, "Facebook", posts[1].Platform)
	assert.Equal(t, "5", posts[1].LikesReactions())
	assert.Equal(t, "0", posts[1].ClicksEngagement())
}
